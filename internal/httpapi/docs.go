package httpapi

import (
	"net/http"

	"itam-platform/internal/auth"
	"itam-platform/internal/docs"

	"github.com/gin-gonic/gin"
)

// ListDocuments supports ?category=, ?type= and ?search= filters. The
// UI sends "all" for an unset dropdown; treat it as absent.
func (h Handlers) ListDocuments(c *gin.Context) {
	f := docs.Filter{
		CategoryID: filterParam(c, "category"),
		Type:       filterParam(c, "type"),
		Search:     c.Query("search"),
	}
	out, err := h.Docs.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetDocument returns one document with its recent access trail. Reads
// are public; the view is attributed when a valid token is presented.
func (h Handlers) GetDocument(c *gin.Context) {
	userID := auth.OptionalUserID(c.Request.Context())
	d, err := h.Docs.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handlers) CreateDocument(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var in docs.DocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	d, err := h.Docs.Create(c.Request.Context(), in, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h Handlers) UpdateDocument(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var in docs.DocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	d, err := h.Docs.Update(c.Request.Context(), c.Param("id"), in, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handlers) DeleteDocument(c *gin.Context) {
	if err := h.Docs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RevealCredential confirms a stored credential and records the
// privileged access. Requires authentication.
func (h Handlers) RevealCredential(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	res, err := h.Docs.Reveal(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

/* ===================== CATEGORIES ===================== */

type categoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (h Handlers) ListCategories(c *gin.Context) {
	out, err := h.Docs.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cat, err := h.Docs.CreateCategory(c.Request.Context(), req.Name, req.Icon)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h Handlers) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cat, err := h.Docs.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name, req.Icon)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h Handlers) DeleteCategory(c *gin.Context) {
	if err := h.Docs.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func filterParam(c *gin.Context, name string) string {
	v := c.Query(name)
	if v == "all" {
		return ""
	}
	return v
}
