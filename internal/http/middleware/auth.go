package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
	UserNameKey = "userName"

	SessionCookie = "session"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}

// RequireAuth resolves the caller from a Bearer token or the session cookie and
// stores id, role and name on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case domain.IsForbidden(err):
			abort(c, http.StatusForbidden, err.Error())
			return
		case domain.IsUnauthorized(err):
			abort(c, http.StatusUnauthorized, err.Error())
			return
		default:
			utils.LogError(GetRequestID(c), "auth", "authenticate", err)
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.Set(UserIDKey, u.ID)
		c.Set(UserRoleKey, string(u.Role))
		c.Set(UserNameKey, u.Name)
		c.Next()
	}
}
