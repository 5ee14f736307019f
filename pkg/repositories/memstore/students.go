package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

type studentRepository struct {
	db *DB
}

var _ repositories.StudentRepository = (*studentRepository)(nil)

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.timestamp()
	student.ID = uuid.New()
	if student.CreatedBy == "" {
		student.CreatedBy = auth.GetUserIDFromContext(ctx)
	}
	student.CreatedAt = now
	student.UpdatedAt = now

	r.db.state.students[student.ID] = *cloneStudent(*student)
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.state.students[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneStudent(s), nil
}

func (r *studentRepository) List(ctx context.Context, search string) ([]*models.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	students := make([]*models.Student, 0)
	for _, s := range r.db.state.students {
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.FirstName), needle) &&
			!strings.Contains(strings.ToLower(s.LastName), needle) {
			continue
		}
		students = append(students, cloneStudent(s))
	}
	slices.SortFunc(students, func(a, b *models.Student) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return students, nil
}
