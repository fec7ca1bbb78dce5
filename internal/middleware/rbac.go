package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/models"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

// RequireRoles restricts a route to the listed roles. It must run
// after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff allows any authenticated back-office role.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.RoleOwner, models.RoleAdmin, models.RoleFrontDesk)
}

// RequireAdmin allows owners and admins only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleOwner, models.RoleAdmin)
}
