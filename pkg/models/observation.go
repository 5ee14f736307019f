package models

import (
	"time"

	"github.com/google/uuid"
)

// Observation is a dated free-text note attached to a rating.
type Observation struct {
	ID              uuid.UUID `json:"id"`
	RatingID        uuid.UUID `json:"rating_id"`
	ObservationDate Date      `json:"observation_date"`
	ObservationText string    `json:"observation_text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
