package permissions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventdesk/backend/internal/models"
)

func actorWith(superuser bool, roles ...string) *models.Actor {
	return &models.Actor{
		User:  &models.User{ID: uuid.New(), IsSuperuser: superuser},
		Roles: models.NewRoleSet(roles...),
	}
}

func TestIsSuperuser(t *testing.T) {
	assert.True(t, IsSuperuser(actorWith(true)))
	assert.False(t, IsSuperuser(actorWith(false, "admin")))
	assert.False(t, IsSuperuser(nil))
	assert.False(t, IsSuperuser(&models.Actor{}))
}

func TestIsAdminOrSuperuser(t *testing.T) {
	assert.True(t, IsAdminOrSuperuser(actorWith(false, "admin")))
	assert.True(t, IsAdminOrSuperuser(actorWith(true)))
	assert.False(t, IsAdminOrSuperuser(actorWith(false, "event_organizer")))
	assert.False(t, IsAdminOrSuperuser(actorWith(false)))
}

func TestIsEventOrganizer(t *testing.T) {
	assert.True(t, IsEventOrganizer(actorWith(false, "event_organizer")))
	assert.False(t, IsEventOrganizer(actorWith(false, "admin")))
}

func TestCanModifyUser(t *testing.T) {
	self := actorWith(false)
	other := &models.User{ID: uuid.New()}

	// Owner can touch their own record, not someone else's.
	assert.True(t, CanModifyUser(self, self.User))
	assert.False(t, CanModifyUser(self, other))

	// Admin and superuser can touch anyone.
	assert.True(t, CanModifyUser(actorWith(false, "admin"), other))
	assert.True(t, CanModifyUser(actorWith(true), other))

	assert.False(t, CanModifyUser(nil, other))
	assert.False(t, CanModifyUser(self, nil))
}
