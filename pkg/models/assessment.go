package models

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentPeriod is the school-year window an assessment belongs to.
type AssessmentPeriod string

const (
	PeriodFall   AssessmentPeriod = "Fall"
	PeriodWinter AssessmentPeriod = "Winter"
	PeriodSpring AssessmentPeriod = "Spring"
)

// AssessmentStatus tracks how far an assessment has progressed.
type AssessmentStatus string

const (
	StatusDraft      AssessmentStatus = "draft"
	StatusInProgress AssessmentStatus = "in-progress"
	StatusComplete   AssessmentStatus = "complete"
)

// Assessment is one evaluation of a student for a period.
// Student is populated on reads that join the student row.
type Assessment struct {
	ID               uuid.UUID        `json:"id"`
	StudentID        uuid.UUID        `json:"student_id"`
	AssessorID       string           `json:"assessor_id"`
	AssessmentDate   Date             `json:"assessment_date"`
	AssessmentPeriod AssessmentPeriod `json:"assessment_period"`
	Status           AssessmentStatus `json:"status"`
	Notes            *string          `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Student          *Student         `json:"student,omitempty"`
}

// AssessmentUpdate carries the fields of a partial update. Nil fields are
// left untouched.
type AssessmentUpdate struct {
	AssessmentDate   *Date
	AssessmentPeriod *AssessmentPeriod
	Notes            *string
	Status           *AssessmentStatus
}

// IsEmpty reports whether no field is set.
func (u *AssessmentUpdate) IsEmpty() bool {
	return u.AssessmentDate == nil && u.AssessmentPeriod == nil && u.Notes == nil && u.Status == nil
}

// AssessmentDetail is an assessment with its student and ratings.
// Ratings is never nil.
type AssessmentDetail struct {
	*Assessment
	Ratings []*Rating `json:"ratings"`
}
