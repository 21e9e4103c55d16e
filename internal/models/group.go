package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a named role grouping (e.g. "admin", "event_organizer").
type Group struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserGroup links a user to a group.
type UserGroup struct {
	UserID  uuid.UUID `json:"user_id"`
	GroupID int       `json:"group_id"`
}
