package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is one of the closed set of platform roles, backed by group membership.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleEventOrganizer Role = "event_organizer"
)

// RoleSet is the set of roles an actor holds.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from group names. Unknown names are kept so
// group membership round-trips, but only the defined constants matter to
// permission checks.
func NewRoleSet(names ...string) RoleSet {
	s := make(RoleSet, len(names))
	for _, n := range names {
		s[Role(n)] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// User represents a platform user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSuperuser  bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is an authenticated user together with the roles resolved from group
// membership at authentication time.
type Actor struct {
	User  *User
	Roles RoleSet
}
