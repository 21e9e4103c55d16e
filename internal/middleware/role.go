package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/internal/permissions"
	"github.com/eventdesk/backend/pkg/response"
)

// Require returns a middleware that allows only actors passing the predicate.
// Route-level role checks run before any object fetch; object-level checks
// live in handlers after the fetch.
func Require(allowed func(*models.Actor) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		if !allowed(actor) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperuser allows only superusers.
func RequireSuperuser() gin.HandlerFunc {
	return Require(permissions.IsSuperuser)
}

// RequireAdminOrSuperuser allows admins and superusers.
func RequireAdminOrSuperuser() gin.HandlerFunc {
	return Require(permissions.IsAdminOrSuperuser)
}
