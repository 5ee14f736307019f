package handlers

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/catalog"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// mockAuthService accepts every request as claims, or rejects all when err
// is set.
type mockAuthService struct {
	claims *auth.Claims
	err    error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*auth.Claims, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.claims, "test-token", nil
}

func (m *mockAuthService) RequireSubject(claims *auth.Claims) error {
	if claims == nil || claims.Subject == "" {
		return auth.ErrMissingSubject
	}
	return nil
}

func authenticatedMiddleware(userID string) *auth.Middleware {
	return auth.NewMiddleware(&mockAuthService{
		claims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}},
	}, zap.NewNop())
}

func rejectingMiddleware() *auth.Middleware {
	return auth.NewMiddleware(&mockAuthService{err: auth.ErrMissingAuthorization}, zap.NewNop())
}

// countingScope records how many requests acquired a store scope.
type countingScope struct {
	calls int
}

func (c *countingScope) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.calls++
		next(w, r)
	}
}

// mockServices implements every service interface and counts calls so tests
// can assert the store was never reached.
type mockServices struct {
	calls int
	err   error

	domains     []*models.Domain
	levels      []*models.DevelopmentalLevel
	students    []*models.Student
	student     *models.Student
	assessments []*models.Assessment
	assessment  *models.Assessment
	detail      *models.AssessmentDetail
	summaries   []*models.DomainSummary
	ratings     []*models.Rating
	rating      *models.Rating
	obsList     []*models.Observation
	observation *models.Observation

	lastSearch    string
	lastStudentID *uuid.UUID
	lastID        uuid.UUID
	lastCreate    *services.CreateAssessmentInput
	lastUpdate    *services.UpdateAssessmentInput
	lastRating    *services.SaveRatingInput
	lastObsUpdate *services.UpdateObservationInput
}

var (
	_ services.ReferenceService   = (*mockServices)(nil)
	_ services.StudentService     = (*studentMock)(nil)
	_ services.AssessmentService  = (*assessmentMock)(nil)
	_ services.RatingService      = (*ratingMock)(nil)
	_ services.ObservationService = (*observationMock)(nil)
)

func (m *mockServices) ListDomainsWithMeasures(ctx context.Context) ([]*models.Domain, error) {
	m.calls++
	return m.domains, m.err
}

func (m *mockServices) ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error) {
	m.calls++
	return m.levels, m.err
}

func (m *mockServices) SeedCatalog(ctx context.Context, cat *catalog.Catalog) (*services.SeedResult, error) {
	m.calls++
	return &services.SeedResult{}, m.err
}

// Method sets overlap across the service interfaces (List, Create, ...), so
// each interface gets a thin named view over the shared mock.
type studentMock struct{ *mockServices }
type assessmentMock struct{ *mockServices }
type ratingMock struct{ *mockServices }
type observationMock struct{ *mockServices }

func (m studentMock) List(ctx context.Context, search string) ([]*models.Student, error) {
	m.calls++
	m.lastSearch = search
	return m.students, m.err
}

func (m studentMock) Create(ctx context.Context, input *services.CreateStudentInput) (*models.Student, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.Student{ID: uuid.New(), FirstName: input.FirstName, LastName: input.LastName, CreatedBy: auth.GetUserIDFromContext(ctx)}, nil
}

func (m studentMock) Get(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	m.calls++
	m.lastID = id
	return m.student, m.err
}

func (m assessmentMock) Create(ctx context.Context, input *services.CreateAssessmentInput) (*models.Assessment, error) {
	m.calls++
	m.lastCreate = input
	return m.assessment, m.err
}

func (m assessmentMock) Get(ctx context.Context, id uuid.UUID) (*models.AssessmentDetail, error) {
	m.calls++
	m.lastID = id
	return m.detail, m.err
}

func (m assessmentMock) Update(ctx context.Context, id uuid.UUID, input *services.UpdateAssessmentInput) (*models.Assessment, error) {
	m.calls++
	m.lastID = id
	m.lastUpdate = input
	return m.assessment, m.err
}

func (m assessmentMock) Delete(ctx context.Context, id uuid.UUID) error {
	m.calls++
	m.lastID = id
	return m.err
}

func (m assessmentMock) List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error) {
	m.calls++
	m.lastStudentID = studentID
	return m.assessments, m.err
}

func (m assessmentMock) Summary(ctx context.Context, id uuid.UUID) ([]*models.DomainSummary, error) {
	m.calls++
	m.lastID = id
	return m.summaries, m.err
}

func (m ratingMock) Save(ctx context.Context, input *services.SaveRatingInput) (*models.Rating, error) {
	m.calls++
	m.lastRating = input
	return m.rating, m.err
}

func (m ratingMock) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error) {
	m.calls++
	m.lastID = assessmentID
	return m.ratings, m.err
}

func (m observationMock) List(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error) {
	m.calls++
	m.lastID = ratingID
	return m.obsList, m.err
}

func (m observationMock) Create(ctx context.Context, input *services.CreateObservationInput) (*models.Observation, error) {
	m.calls++
	return m.observation, m.err
}

func (m observationMock) Update(ctx context.Context, id uuid.UUID, input *services.UpdateObservationInput) (*models.Observation, error) {
	m.calls++
	m.lastID = id
	m.lastObsUpdate = input
	return m.observation, m.err
}

func (m observationMock) Delete(ctx context.Context, id uuid.UUID) error {
	m.calls++
	m.lastID = id
	return m.err
}

// newTestMux registers every handler over mock, the way main wires them.
func newTestMux(mock *mockServices, authMiddleware *auth.Middleware, scope *countingScope) *http.ServeMux {
	mux := http.NewServeMux()
	logger := zap.NewNop()
	NewReferenceHandler(mock, logger).RegisterRoutes(mux, scope.middleware)
	NewStudentsHandler(studentMock{mock}, logger).RegisterRoutes(mux, authMiddleware, scope.middleware)
	NewAssessmentsHandler(assessmentMock{mock}, logger).RegisterRoutes(mux, authMiddleware, scope.middleware)
	NewRatingsHandler(ratingMock{mock}, logger).RegisterRoutes(mux, authMiddleware, scope.middleware)
	NewObservationsHandler(observationMock{mock}, logger).RegisterRoutes(mux, authMiddleware, scope.middleware)
	return mux
}
