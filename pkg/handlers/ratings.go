package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// RatingsHandler handles rating HTTP requests.
type RatingsHandler struct {
	ratingService services.RatingService
	logger        *zap.Logger
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(ratingService services.RatingService, logger *zap.Logger) *RatingsHandler {
	return &RatingsHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

// RegisterRoutes registers the rating routes on the given mux.
func (h *RatingsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /api/ratings", authMiddleware.RequireAuth(scope(h.List)))
	mux.HandleFunc("POST /api/ratings", authMiddleware.RequireAuth(scope(h.Save)))
}

// List handles GET /api/ratings?assessment_id=
func (h *RatingsHandler) List(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseQueryUUID(w, r, "assessment_id", h.logger)
	if !ok {
		return
	}

	ratings, err := h.ratingService.ListByAssessment(r.Context(), assessmentID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch ratings",
			zap.String("assessment_id", assessmentID.String()))
		return
	}
	writeOK(w, http.StatusOK, ratings, h.logger)
}

// Save handles POST /api/ratings. It creates or replaces the rating for the
// (assessment, measure) pair.
func (h *RatingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req services.SaveRatingInput
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	rating, err := h.ratingService.Save(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save rating",
			zap.String("assessment_id", req.AssessmentID.String()),
			zap.String("measure_id", req.MeasureID.String()))
		return
	}
	writeOK(w, http.StatusOK, rating, h.logger)
}
