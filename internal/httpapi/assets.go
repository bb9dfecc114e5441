package httpapi

import (
	"net/http"

	"itam-platform/internal/assets"
	"itam-platform/internal/audit"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListAssets(c *gin.Context) {
	out, err := h.Assets.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetAsset(c *gin.Context) {
	a, err := h.Assets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAsset persists the asset with its initial history row, then
// records the audit event. The audit row is written after commit.
func (h Handlers) CreateAsset(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var in assets.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}

	a, err := h.Assets.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Audit.Record(c.Request.Context(), userID, audit.ActionCreateAsset, "asset:"+a.ID)

	c.JSON(http.StatusCreated, a)
}

func (h Handlers) UpdateAsset(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var in assets.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}

	a, err := h.Assets.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Audit.Record(c.Request.Context(), userID, audit.ActionUpdateAsset, "asset:"+a.ID)

	c.JSON(http.StatusOK, a)
}

func (h Handlers) AssetHistory(c *gin.Context) {
	out, err := h.Assets.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
