package models

import (
	"time"

	"github.com/google/uuid"
)

// Student identifies a child being assessed.
type Student struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthdate *Date     `json:"birthdate,omitempty"`
	Grade     *string   `json:"grade,omitempty"`
	Class     *string   `json:"class,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
