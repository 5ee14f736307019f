package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain is a developmental category (e.g. Language and Literacy Development)
// grouping related measures.
type Domain struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
	Measures  []*Measure `json:"measures"`
	CreatedAt time.Time  `json:"created_at"`
}

// Measure is a specific skill assessed within a domain.
type Measure struct {
	ID        uuid.UUID `json:"id"`
	DomainID  uuid.UUID `json:"domain_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// DevelopmentalLevel is one step on the ordered rating scale.
// SortOrder is the ordinal position used for averages.
type DevelopmentalLevel struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
