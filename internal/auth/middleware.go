package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// Gin context keys set by the middleware for handler convenience.
const (
	ginKeyUserID   = "user_id"
	ginKeyRole     = "role"
	ginKeyTokenJTI = "token_jti"
	ginKeyTokenExp = "token_exp"
)

// RequireAccessToken verifies an access token and injects identity into
// request context. It does not perform RBAC checks; those belong to
// internal/rbac. revoker may be nil (no denylist configured).
func RequireAccessToken(m *Manager, revoker Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, m, revoker)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		injectIdentity(c, claims)
		c.Next()
	}
}

// OptionalAccessToken injects identity when a valid bearer token is present
// and lets anonymous requests pass through untouched. Public read endpoints
// use it so access logs can attribute views to a user when possible.
func OptionalAccessToken(m *Manager, revoker Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" {
			c.Next()
			return
		}
		if claims, ok := bearerClaims(c, m, revoker); ok {
			injectIdentity(c, claims)
		}
		// An invalid token on a public endpoint degrades to anonymous.
		c.Next()
	}
}

func bearerClaims(c *gin.Context, m *Manager, revoker Revoker) (Claims, bool) {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return Claims{}, false
	}
	tok := strings.TrimPrefix(raw, bearerPrefix)

	claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
	if err != nil {
		return Claims{}, false
	}

	if revoker != nil {
		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			// Denylist lookup failures fail closed on required-auth paths.
			return Claims{}, false
		}
	}
	return claims, true
}

func injectIdentity(c *gin.Context, claims Claims) {
	ctx := WithIdentity(c.Request.Context(), claims.UserID, claims.Role)
	c.Request = c.Request.WithContext(ctx)

	c.Set(ginKeyUserID, claims.UserID)
	c.Set(ginKeyRole, claims.Role)
	c.Set(ginKeyTokenJTI, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ginKeyTokenExp, claims.ExpiresAt.Time)
	}
}

// TokenJTI returns the jti of the verified token for this request, if any.
func TokenJTI(c *gin.Context) (string, time.Time, bool) {
	jti, ok := c.Get(ginKeyTokenJTI)
	if !ok {
		return "", time.Time{}, false
	}
	s, _ := jti.(string)
	var exp time.Time
	if v, ok := c.Get(ginKeyTokenExp); ok {
		exp, _ = v.(time.Time)
	}
	return s, exp, s != ""
}
