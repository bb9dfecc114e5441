package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AuditLogs serves the admin review listing, newest first. ?limit= caps
// the page within the service default.
func (h Handlers) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
