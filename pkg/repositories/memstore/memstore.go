// Package memstore provides an in-process implementation of the repository
// interfaces. It mirrors the PostgreSQL adapter's ordering, join and
// referential rules and is used for local development and unit tests.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

type memoryState struct {
	domains      map[uuid.UUID]models.Domain
	measures     map[uuid.UUID]models.Measure
	levels       map[uuid.UUID]models.DevelopmentalLevel
	students     map[uuid.UUID]models.Student
	assessments  map[uuid.UUID]models.Assessment
	ratings      map[uuid.UUID]models.Rating
	observations map[uuid.UUID]models.Observation
}

func newMemoryState() memoryState {
	return memoryState{
		domains:      map[uuid.UUID]models.Domain{},
		measures:     map[uuid.UUID]models.Measure{},
		levels:       map[uuid.UUID]models.DevelopmentalLevel{},
		students:     map[uuid.UUID]models.Student{},
		assessments:  map[uuid.UUID]models.Assessment{},
		ratings:      map[uuid.UUID]models.Rating{},
		observations: map[uuid.UUID]models.Observation{},
	}
}

// DB holds the shared state behind every repository of one memory store.
// A single mutex serializes writes, which makes the rating upsert atomic.
type DB struct {
	mu    sync.RWMutex
	state memoryState
	now   func() time.Time
}

// New returns a Store whose repositories share one empty in-memory database.
func New() *repositories.Store {
	return NewWithDB(NewDB())
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		state: newMemoryState(),
		now:   time.Now,
	}
}

// NewWithDB wires repositories over an existing database, letting tests
// inspect or pre-populate the state.
func NewWithDB(db *DB) *repositories.Store {
	return &repositories.Store{
		Reference:    &referenceRepository{db: db},
		Students:     &studentRepository{db: db},
		Assessments:  &assessmentRepository{db: db},
		Ratings:      &ratingRepository{db: db},
		Observations: &observationRepository{db: db},
	}
}

// Counts reports how many rows each table holds.
func (db *DB) Counts() map[string]int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return map[string]int{
		"domains":              len(db.state.domains),
		"measures":             len(db.state.measures),
		"developmental_levels": len(db.state.levels),
		"students":             len(db.state.students),
		"assessments":          len(db.state.assessments),
		"ratings":              len(db.state.ratings),
		"observations":         len(db.state.observations),
	}
}

func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}

// ============================================================================
// Clone helpers: callers never share memory with the stored rows.
// ============================================================================

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *models.Date) *models.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneStudent(s models.Student) *models.Student {
	s.Birthdate = cloneDate(s.Birthdate)
	s.Grade = cloneString(s.Grade)
	s.Class = cloneString(s.Class)
	s.Notes = cloneString(s.Notes)
	return &s
}

func cloneAssessment(a models.Assessment) *models.Assessment {
	a.Notes = cloneString(a.Notes)
	a.Student = nil
	return &a
}

func cloneRating(r models.Rating) *models.Rating {
	r.DevelopmentalLevelID = cloneUUID(r.DevelopmentalLevelID)
	r.ObservationNotes = cloneString(r.ObservationNotes)
	r.Measure = nil
	r.DevelopmentalLevel = nil
	r.Observations = nil
	return &r
}
