// Package middleware gates admin-only surface operations behind the
// authority service's JWT, adapted from the teacher's
// internal/middleware/auth_middleware.go (Bearer-header parsing, abort
// shape) and bus_owner_verification.go (role-gate-after-auth pattern),
// collapsed to Traits' two-role model instead of the teacher's
// multi-role/profile-completion checks.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traits-rail/traits-core/internal/authority"
)

// RoleContextKey is the key under which the authorized Role is stored in
// the gin context after AuthMiddleware runs.
const RoleContextKey = "traits_role"

// AuthMiddleware validates the Bearer JWT on every request and stores the
// authorized Role in the gin context for downstream handlers.
func AuthMiddleware(authSvc *authority.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			c.Abort()
			return
		}

		claims, err := authSvc.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.WithFields(logrus.Fields{"path": c.Request.URL.Path, "error": err}).Warn("rejected request: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(RoleContextKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates a route group to only the admin role. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if role != authority.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetRole retrieves the authorized Role set by AuthMiddleware.
func GetRole(c *gin.Context) (authority.Role, bool) {
	value, exists := c.Get(RoleContextKey)
	if !exists {
		return "", false
	}
	role, ok := value.(authority.Role)
	return role, ok
}
