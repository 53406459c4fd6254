// Package models defines the data structures that map to database tables
// and the template types shared by the registry, resolver and REST layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a template author. Only the fields needed for author attribution
// are stored; authentication lives in the host platform.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
