// Package permissions holds the stateless role predicates gating routes.
// An Actor carries its role set resolved from group membership, so checks are
// set lookups against the closed Role constants rather than name comparisons
// scattered across handlers.
package permissions

import (
	"github.com/eventdesk/backend/internal/models"
)

// IsSuperuser reports whether the actor is a superuser.
func IsSuperuser(a *models.Actor) bool {
	return a != nil && a.User != nil && a.User.IsSuperuser
}

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(a *models.Actor) bool {
	return a != nil && a.User != nil && a.Roles.Has(models.RoleAdmin)
}

// IsEventOrganizer reports whether the actor holds the event_organizer role.
func IsEventOrganizer(a *models.Actor) bool {
	return a != nil && a.User != nil && a.Roles.Has(models.RoleEventOrganizer)
}

// IsAdminOrSuperuser reports whether the actor is an admin or a superuser.
func IsAdminOrSuperuser(a *models.Actor) bool {
	return IsSuperuser(a) || IsAdmin(a)
}

// CanModifyUser reports whether the actor may read or write the target user:
// the target itself, an admin, or a superuser.
func CanModifyUser(a *models.Actor, target *models.User) bool {
	if a == nil || a.User == nil || target == nil {
		return false
	}
	if IsAdminOrSuperuser(a) {
		return true
	}
	return a.User.ID == target.ID
}
