package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventdesk/backend/internal/models"
)

func serveWithActor(t *testing.T, actor *models.Actor, gate gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if actor != nil {
			c.Set(ContextActor, actor)
		}
	}, gate, func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	return w.Code
}

func actor(superuser bool, roles ...string) *models.Actor {
	return &models.Actor{
		User:  &models.User{ID: uuid.New(), IsSuperuser: superuser},
		Roles: models.NewRoleSet(roles...),
	}
}

func TestRequireSuperuser(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithActor(t, actor(true), RequireSuperuser()))
	assert.Equal(t, http.StatusForbidden, serveWithActor(t, actor(false, "admin"), RequireSuperuser()))
	assert.Equal(t, http.StatusUnauthorized, serveWithActor(t, nil, RequireSuperuser()))
}

func TestRequireAdminOrSuperuser(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithActor(t, actor(false, "admin"), RequireAdminOrSuperuser()))
	assert.Equal(t, http.StatusOK, serveWithActor(t, actor(true), RequireAdminOrSuperuser()))
	assert.Equal(t, http.StatusForbidden, serveWithActor(t, actor(false, "event_organizer"), RequireAdminOrSuperuser()))
	assert.Equal(t, http.StatusForbidden, serveWithActor(t, actor(false), RequireAdminOrSuperuser()))
}
