//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/testhelpers"
)

// drdpTestContext holds test dependencies and the rows each test creates.
type drdpTestContext struct {
	t        *testing.T
	engineDB *testhelpers.EngineDB
	store    *Store
	ctx      context.Context
	userID   string
	suffix   string

	domain   *models.Domain
	measures []*models.Measure
	levels   []*models.DevelopmentalLevel
	students []uuid.UUID
}

// setupDRDPTest creates a catalog slice with unique codes and registers cleanup.
func setupDRDPTest(t *testing.T) *drdpTestContext {
	t.Helper()
	engineDB := testhelpers.GetEngineDB(t)

	tc := &drdpTestContext{
		t:        t,
		engineDB: engineDB,
		store:    NewPostgresStore(),
		userID:   "repo-test-" + uuid.NewString()[:8],
		suffix:   uuid.NewString()[:8],
	}
	tc.ctx = engineDB.ScopedContext(t, tc.userID)
	t.Cleanup(tc.cleanup)

	tc.domain = &models.Domain{Code: "TEST-" + tc.suffix, Name: "Test Domain", SortOrder: 100}
	if err := tc.store.Reference.UpsertDomain(tc.ctx, tc.domain); err != nil {
		t.Fatalf("failed to create domain: %v", err)
	}
	for i := 1; i <= 2; i++ {
		m := &models.Measure{
			DomainID:  tc.domain.ID,
			Code:      tc.domain.Code + " " + string(rune('0'+i)),
			Name:      "Test Measure",
			SortOrder: i,
		}
		if err := tc.store.Reference.UpsertMeasure(tc.ctx, m); err != nil {
			t.Fatalf("failed to create measure: %v", err)
		}
		tc.measures = append(tc.measures, m)
	}
	for i := 1; i <= 3; i++ {
		l := &models.DevelopmentalLevel{
			Code:      "TEST_LEVEL_" + tc.suffix + "_" + string(rune('0'+i)),
			Name:      "Test Level",
			SortOrder: 1000 + i,
		}
		if err := tc.store.Reference.UpsertDevelopmentalLevel(tc.ctx, l); err != nil {
			t.Fatalf("failed to create level: %v", err)
		}
		tc.levels = append(tc.levels, l)
	}
	return tc
}

func (tc *drdpTestContext) createStudent(first, last string) *models.Student {
	tc.t.Helper()
	s := &models.Student{FirstName: first, LastName: last}
	if err := tc.store.Students.Create(tc.ctx, s); err != nil {
		tc.t.Fatalf("failed to create student: %v", err)
	}
	tc.students = append(tc.students, s.ID)
	return s
}

func (tc *drdpTestContext) createAssessment(studentID uuid.UUID, date string) *models.Assessment {
	tc.t.Helper()
	a := &models.Assessment{
		StudentID:        studentID,
		AssessorID:       tc.userID,
		AssessmentDate:   models.MustParseDate(date),
		AssessmentPeriod: models.PeriodFall,
		Status:           models.StatusDraft,
	}
	if err := tc.store.Assessments.Create(tc.ctx, a); err != nil {
		tc.t.Fatalf("failed to create assessment: %v", err)
	}
	return a
}

// cleanup removes everything the test created, child rows first.
func (tc *drdpTestContext) cleanup() {
	ctx := context.Background()
	scope, err := tc.engineDB.DB.WithoutUser(ctx)
	if err != nil {
		tc.t.Fatalf("failed to create scope for cleanup: %v", err)
	}
	defer scope.Close()

	if len(tc.students) > 0 {
		_, _ = scope.Conn.Exec(ctx, `
			DELETE FROM ratings WHERE assessment_id IN (
				SELECT id FROM assessments WHERE student_id = ANY($1))`, tc.students)
		_, _ = scope.Conn.Exec(ctx, `DELETE FROM assessments WHERE student_id = ANY($1)`, tc.students)
		_, _ = scope.Conn.Exec(ctx, `DELETE FROM students WHERE id = ANY($1)`, tc.students)
	}
	if tc.domain != nil {
		_, _ = scope.Conn.Exec(ctx, `DELETE FROM ratings WHERE measure_id IN (SELECT id FROM measures WHERE domain_id = $1)`, tc.domain.ID)
		_, _ = scope.Conn.Exec(ctx, `DELETE FROM measures WHERE domain_id = $1`, tc.domain.ID)
		_, _ = scope.Conn.Exec(ctx, `DELETE FROM domains WHERE id = $1`, tc.domain.ID)
	}
	_, _ = scope.Conn.Exec(ctx, `DELETE FROM developmental_levels WHERE code LIKE $1`, "TEST_LEVEL_"+tc.suffix+"_%")
}
