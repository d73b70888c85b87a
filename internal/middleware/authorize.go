package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles admits principals whose backend role is one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if _, ok := roleSet[principal.Role()]; !ok {
			abortWithError(c, http.StatusForbidden, "Access denied")
			return
		}

		c.Next()
	}
}
