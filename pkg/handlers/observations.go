package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// ObservationsHandler handles observation HTTP requests.
type ObservationsHandler struct {
	observationService services.ObservationService
	logger             *zap.Logger
}

// NewObservationsHandler creates a new observations handler.
func NewObservationsHandler(observationService services.ObservationService, logger *zap.Logger) *ObservationsHandler {
	return &ObservationsHandler{
		observationService: observationService,
		logger:             logger,
	}
}

// RegisterRoutes registers the observation routes on the given mux.
func (h *ObservationsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /api/observations", authMiddleware.RequireAuth(scope(h.List)))
	mux.HandleFunc("POST /api/observations", authMiddleware.RequireAuth(scope(h.Create)))
	mux.HandleFunc("PATCH /api/observations/{id}", authMiddleware.RequireAuth(scope(h.Update)))
	mux.HandleFunc("DELETE /api/observations/{id}", authMiddleware.RequireAuth(scope(h.Delete)))
}

// List handles GET /api/observations?rating_id=
func (h *ObservationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ratingID, ok := parseQueryUUID(w, r, "rating_id", h.logger)
	if !ok {
		return
	}

	observations, err := h.observationService.List(r.Context(), ratingID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch observations",
			zap.String("rating_id", ratingID.String()))
		return
	}
	writeOK(w, http.StatusOK, observations, h.logger)
}

// Create handles POST /api/observations
func (h *ObservationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateObservationInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	obs, err := h.observationService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create observation",
			zap.String("rating_id", req.RatingID.String()))
		return
	}
	writeOK(w, http.StatusCreated, obs, h.logger)
}

// Update handles PATCH /api/observations/{id}
func (h *ObservationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObservationID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateObservationInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	obs, err := h.observationService.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update observation",
			zap.String("observation_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, obs, h.logger)
}

// Delete handles DELETE /api/observations/{id}
func (h *ObservationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObservationID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.observationService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete observation",
			zap.String("observation_id", id.String()))
		return
	}
	writeOK(w, http.StatusOK, SuccessResponse{Success: true}, h.logger)
}
