package middleware

import (
	"net/http"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets through callers whose role is in allowedRoles.
// RequireAuth must run first.
func RequireRoles(allowedRoles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToUpper(strings.TrimSpace(string(r)))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if role == "" {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if _, ok := allowed[strings.ToUpper(strings.TrimSpace(role))]; !ok {
			abort(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}
