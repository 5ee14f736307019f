package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// AssessmentsHandler handles assessment HTTP requests.
type AssessmentsHandler struct {
	assessmentService services.AssessmentService
	logger            *zap.Logger
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(assessmentService services.AssessmentService, logger *zap.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{
		assessmentService: assessmentService,
		logger:            logger,
	}
}

// RegisterRoutes registers the assessment routes on the given mux.
func (h *AssessmentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	base := "/api/assessments"

	mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(scope(h.List)))
	mux.HandleFunc("POST "+base, authMiddleware.RequireAuth(scope(h.Create)))
	mux.HandleFunc("GET "+base+"/{id}", authMiddleware.RequireAuth(scope(h.Get)))
	mux.HandleFunc("PATCH "+base+"/{id}", authMiddleware.RequireAuth(scope(h.Update)))
	mux.HandleFunc("DELETE "+base+"/{id}", authMiddleware.RequireAuth(scope(h.Delete)))
	mux.HandleFunc("GET "+base+"/{id}/summary", authMiddleware.RequireAuth(scope(h.Summary)))
}

// List handles GET /api/assessments?student_id=
func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseQueryUUID(w, r, "student_id", h.logger)
	if !ok {
		return
	}

	var filter *uuid.UUID
	if studentID != uuid.Nil {
		filter = &studentID
	}

	assessments, err := h.assessmentService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch assessments")
		return
	}
	writeOK(w, http.StatusOK, assessments, h.logger)
}

// Create handles POST /api/assessments
func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAssessmentInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	assessment, err := h.assessmentService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create assessment",
			zap.String("student_id", req.StudentID.String()))
		return
	}
	writeOK(w, http.StatusCreated, assessment, h.logger)
}

// Get handles GET /api/assessments/{id}
func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAssessmentID(w, r, h.logger)
	if !ok {
		return
	}

	detail, err := h.assessmentService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch assessment",
			zap.String("assessment_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, detail, h.logger)
}

// Update handles PATCH /api/assessments/{id}
func (h *AssessmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAssessmentID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateAssessmentInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	assessment, err := h.assessmentService.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update assessment",
			zap.String("assessment_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, assessment, h.logger)
}

// Delete handles DELETE /api/assessments/{id}
func (h *AssessmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAssessmentID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete assessment",
			zap.String("assessment_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, SuccessResponse{Success: true}, h.logger)
}

// Summary handles GET /api/assessments/{id}/summary
func (h *AssessmentsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAssessmentID(w, r, h.logger)
	if !ok {
		return
	}

	summaries, err := h.assessmentService.Summary(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to compute assessment summary",
			zap.String("assessment_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, summaries, h.logger)
}
