package httpapi

import (
	"net/http"
	"strconv"

	"itam-platform/internal/backups"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListBackupRoutines(c *gin.Context) {
	out, err := h.Backups.ListRoutines(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetBackupRoutine(c *gin.Context) {
	r, err := h.Backups.GetRoutine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h Handlers) CreateBackupRoutine(c *gin.Context) {
	var in backups.RoutineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	r, err := h.Backups.CreateRoutine(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h Handlers) UpdateBackupRoutine(c *gin.Context) {
	var in backups.RoutineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	r, err := h.Backups.UpdateRoutine(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ExecuteBackup records one run of the routine. The log entry and the
// routine's status/lastRun land together.
func (h Handlers) ExecuteBackup(c *gin.Context) {
	var in backups.ExecutionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	l, err := h.Backups.Execute(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// ListBackupLogs supports ?routineId= and ?limit=.
func (h Handlers) ListBackupLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.Backups.Logs(c.Request.Context(), c.Query("routineId"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
