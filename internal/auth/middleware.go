package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/happynation/wellbeing-service/internal/models"
)

const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextSessionID = "session_id"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// SessionCheck reports whether the session a token was issued for is still
// live. A nil SessionCheck accepts every well-formed token.
type SessionCheck func(ctx context.Context, sessionID string) (bool, error)

func (check SessionCheck) live(ctx context.Context, sessionID string) (bool, error) {
	if check == nil {
		return true, nil
	}
	return check(ctx, sessionID)
}

// Authenticate rejects requests without a valid token or whose session has
// been ended by logout or expiry.
func Authenticate(tm *TokenManager, active SessionCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tm.Parse(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}

		live, err := active.live(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Session store unavailable"})
			return
		}
		if !live {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired", "code": "session_expired"})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthenticate sets the caller's identity when a valid token for a
// live session is sent and lets anonymous requests through otherwise.
func OptionalAuthenticate(tm *TokenManager, active SessionCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tm.Parse(token); err == nil {
				if live, err := active.live(c.Request.Context(), claims.SessionID); err == nil && live {
					setClaims(c, claims)
				}
			}
		}
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextSessionID, claims.SessionID)
}

func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func CurrentRole(c *gin.Context) models.UserRole {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.UserRole); ok {
			return role
		}
	}
	return ""
}

func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
