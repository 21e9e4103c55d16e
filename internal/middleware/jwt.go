package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventdesk/backend/internal/auth"
	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

const (
	// ContextActor is the key for the authenticated actor in gin context.
	ContextActor = "actor"
)

// ActorLoader resolves a user ID to an actor with its role set.
type ActorLoader interface {
	LoadActor(ctx context.Context, id uuid.UUID) (*models.Actor, error)
}

// JWT returns a middleware that validates the bearer token and loads the
// actor (user plus roles) from storage into the request context. Loading from
// storage means role assignment takes effect on the next request, not the
// next token.
func JWT(jwtService *auth.JWTService, loader ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		actor, err := loader.LoadActor(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "user no longer exists")
			c.Abort()
			return
		}
		c.Set(ContextActor, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor from the gin context, or nil when
// the JWT middleware did not run.
func ActorFrom(c *gin.Context) *models.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.Actor)
	return actor
}
