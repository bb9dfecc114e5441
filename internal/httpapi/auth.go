package httpapi

import (
	"net/http"
	"strings"
	"time"

	"itam-platform/internal/auth"
	"itam-platform/pkg/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login validates credentials and issues a token pair. Attempts are
// rate limited per email and client IP.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	if !h.allowLoginAttempt(c, req.Email) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), u.ID, u.Role)
	if err != nil {
		h.logger().Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

// Refresh rotates a refresh token. The role is re-read from the user
// row, so a role change takes effect on the next refresh. The old
// refresh token is revoked once the new pair is issued.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	now := time.Now()
	claims, err := h.Auth.Verify(strings.TrimSpace(req.RefreshToken), auth.TokenTypeRefresh, now)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	if h.Revoker != nil {
		revoked, err := h.Revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
	}

	u, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		// An account removed after token issuance cannot refresh.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	pair, err := h.Auth.IssuePair(now, u.ID, u.Role)
	if err != nil {
		h.logger().Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if h.Revoker != nil && claims.ExpiresAt != nil {
		if ttl := claims.ExpiresAt.Time.Sub(now); ttl > 0 {
			if err := h.Revoker.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
				h.logger().Warn("refresh token revocation failed", "err", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout revokes the presented access token for its remaining lifetime.
func (h Handlers) Logout(c *gin.Context) {
	jti, exp, ok := auth.TokenJTI(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if h.Revoker != nil {
		ttl := time.Until(exp)
		if ttl <= 0 {
			ttl = time.Minute
		}
		if err := h.Revoker.Revoke(c.Request.Context(), jti, ttl); err != nil {
			h.logger().Error("token revocation failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated account.
func (h Handlers) Me(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

// allowLoginAttempt counts the attempt and reports whether it is within
// the window cap. Counter failures fail open: a Redis outage must not
// lock everyone out.
func (h Handlers) allowLoginAttempt(c *gin.Context, email string) bool {
	t := h.Throttle
	if t.RDB == nil || t.MaxAttempts <= 0 || t.Window <= 0 {
		return true
	}
	key := "login:" + strings.ToLower(strings.TrimSpace(email)) + ":" + c.ClientIP()
	n, err := utils.CountInWindow(c.Request.Context(), t.RDB, key, t.Window)
	if err != nil {
		h.logger().Warn("login throttle unavailable", "err", err)
		return true
	}
	return n <= int64(t.MaxAttempts)
}
