package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// StudentsHandler handles student HTTP requests.
type StudentsHandler struct {
	studentService services.StudentService
	logger         *zap.Logger
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(studentService services.StudentService, logger *zap.Logger) *StudentsHandler {
	return &StudentsHandler{
		studentService: studentService,
		logger:         logger,
	}
}

// RegisterRoutes registers the student routes on the given mux.
func (h *StudentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /api/students", authMiddleware.RequireAuth(scope(h.List)))
	mux.HandleFunc("POST /api/students", authMiddleware.RequireAuth(scope(h.Create)))
	mux.HandleFunc("GET /api/students/{id}", authMiddleware.RequireAuth(scope(h.Get)))
}

// List handles GET /api/students?search=
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch students")
		return
	}
	writeOK(w, http.StatusOK, students, h.logger)
}

// Create handles POST /api/students
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateStudentInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	student, err := h.studentService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create student")
		return
	}
	writeOK(w, http.StatusCreated, student, h.logger)
}

// Get handles GET /api/students/{id}
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseStudentID(w, r, h.logger)
	if !ok {
		return
	}

	student, err := h.studentService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch student",
			zap.String("student_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, student, h.logger)
}
