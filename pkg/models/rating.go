package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating records the developmental level observed for one measure within one
// assessment. At most one rating exists per (assessment, measure).
type Rating struct {
	ID                   uuid.UUID  `json:"id"`
	AssessmentID         uuid.UUID  `json:"assessment_id"`
	MeasureID            uuid.UUID  `json:"measure_id"`
	DevelopmentalLevelID *uuid.UUID `json:"developmental_level_id"`
	ObservationNotes     *string    `json:"observation_notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Joined data, populated by reads.
	Measure            *Measure            `json:"measure,omitempty"`
	DevelopmentalLevel *DevelopmentalLevel `json:"developmental_level,omitempty"`
	Observations       []*Observation      `json:"observations,omitempty"`
}

// IsRated reports whether a developmental level has been recorded.
func (r *Rating) IsRated() bool {
	return r.DevelopmentalLevelID != nil && *r.DevelopmentalLevelID != uuid.Nil
}
