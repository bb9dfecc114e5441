package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardSummary serves the landing page counts.
func (h Handlers) DashboardSummary(c *gin.Context) {
	out, err := h.Reports.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
