package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/backend/internal/auth"
	"github.com/eventdesk/backend/internal/models"
)

type fakeLoader struct {
	actor *models.Actor
}

func (f *fakeLoader) LoadActor(ctx context.Context, id uuid.UUID) (*models.Actor, error) {
	if f.actor == nil {
		return nil, errors.New("no such user")
	}
	return f.actor, nil
}

func newTestRouter(svc *auth.JWTService, loader ActorLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(svc, loader), func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, actor.User.Username)
	})
	return r
}

func TestJWT_MissingHeader(t *testing.T) {
	r := newTestRouter(auth.NewJWTService("s", 1), &fakeLoader{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_MalformedHeader(t *testing.T) {
	r := newTestRouter(auth.NewJWTService("s", 1), &fakeLoader{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_InvalidToken(t *testing.T) {
	r := newTestRouter(auth.NewJWTService("s", 1), &fakeLoader{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_ValidTokenLoadsActor(t *testing.T) {
	svc := auth.NewJWTService("s", 1)
	userID := uuid.New()
	loader := &fakeLoader{actor: &models.Actor{
		User:  &models.User{ID: userID, Username: "alice"},
		Roles: models.NewRoleSet("admin"),
	}}
	r := newTestRouter(svc, loader)

	token, err := svc.Generate(userID, "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestJWT_DeletedUser(t *testing.T) {
	svc := auth.NewJWTService("s", 1)
	r := newTestRouter(svc, &fakeLoader{actor: nil})

	token, err := svc.Generate(uuid.New(), "ghost")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
