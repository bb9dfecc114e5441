package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"itam-platform/internal/assets"
	"itam-platform/internal/audit"
	"itam-platform/internal/auth"
	"itam-platform/internal/backups"
	"itam-platform/internal/docs"
	"itam-platform/internal/reporting"
	"itam-platform/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth    *auth.Manager
	Revoker auth.Revoker
	Users   *users.Service
	Assets  *assets.Service
	Docs    *docs.Service
	Backups *backups.Service
	Audit   *audit.Service
	Reports *reporting.Service

	Throttle LoginThrottle
	Log      *slog.Logger
}

// LoginThrottle caps login attempts per email and client IP within a
// fixed window. A nil RDB disables throttling.
type LoginThrottle struct {
	RDB         *redis.Client
	MaxAttempts int
	Window      time.Duration
}

func (h Handlers) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

// respondError maps domain errors to HTTP statuses. Unknown errors are
// logged and returned as a generic 500 so internals never leak.
func (h Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, assets.ErrNotFound),
		errors.Is(err, docs.ErrNotFound),
		errors.Is(err, backups.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, docs.ErrNotCredential):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "document is not a credential"})
	case errors.Is(err, assets.ErrInvalidArgument),
		errors.Is(err, docs.ErrInvalidArgument),
		errors.Is(err, backups.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	default:
		h.logger().Error("request failed", "path", c.FullPath(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}

// actorID reads the authenticated user from the request context. The
// auth middleware guarantees it on protected routes.
func actorID(c *gin.Context) (string, bool) {
	id, err := auth.UserID(c.Request.Context())
	if err != nil || id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return id, true
}
