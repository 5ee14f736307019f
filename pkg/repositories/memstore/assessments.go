package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

type assessmentRepository struct {
	db *DB
}

var _ repositories.AssessmentRepository = (*assessmentRepository)(nil)

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.state.students[assessment.StudentID]; !ok {
		return apperrors.ErrNotFound
	}

	now := r.db.timestamp()
	assessment.ID = uuid.New()
	assessment.CreatedAt = now
	assessment.UpdatedAt = now

	r.db.state.assessments[assessment.ID] = *cloneAssessment(*assessment)
	return nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.db.state.assessments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.withStudent(a), nil
}

// withStudent joins the student row. Callers hold the lock.
func (r *assessmentRepository) withStudent(a models.Assessment) *models.Assessment {
	out := cloneAssessment(a)
	if s, ok := r.db.state.students[a.StudentID]; ok {
		out.Student = cloneStudent(s)
	}
	return out
}

func (r *assessmentRepository) List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	assessments := make([]*models.Assessment, 0)
	for _, a := range r.db.state.assessments {
		if studentID != nil && a.StudentID != *studentID {
			continue
		}
		assessments = append(assessments, r.withStudent(a))
	}
	slices.SortFunc(assessments, func(a, b *models.Assessment) int {
		return cmp.Or(
			b.AssessmentDate.Compare(a.AssessmentDate.Time),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	})
	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, id uuid.UUID, update *models.AssessmentUpdate) (*models.Assessment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.state.assessments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	if update.AssessmentDate != nil {
		a.AssessmentDate = *update.AssessmentDate
	}
	if update.AssessmentPeriod != nil {
		a.AssessmentPeriod = *update.AssessmentPeriod
	}
	if update.Notes != nil {
		a.Notes = cloneString(update.Notes)
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	a.UpdatedAt = r.db.timestamp()

	r.db.state.assessments[id] = a
	return cloneAssessment(a), nil
}

func (r *assessmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssessmentStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.state.assessments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.db.timestamp()
	r.db.state.assessments[id] = a
	return nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.state.assessments[id]; !ok {
		return apperrors.ErrNotFound
	}
	for _, rt := range r.db.state.ratings {
		if rt.AssessmentID == id {
			return apperrors.ErrConflict
		}
	}
	delete(r.db.state.assessments, id)
	return nil
}
