package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// ScopeMiddleware attaches whatever the store needs to the request context,
// a pooled connection for PostgreSQL or nothing for the memory store.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc

// ReferenceHandler serves the DRDP catalog. Its routes are public.
type ReferenceHandler struct {
	referenceService services.ReferenceService
	logger           *zap.Logger
}

// NewReferenceHandler creates a new reference data handler.
func NewReferenceHandler(referenceService services.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		logger:           logger,
	}
}

// RegisterRoutes registers the reference routes on the given mux.
func (h *ReferenceHandler) RegisterRoutes(mux *http.ServeMux, publicScope ScopeMiddleware) {
	mux.HandleFunc("GET /api/domains", publicScope(h.ListDomains))
	mux.HandleFunc("GET /api/levels", publicScope(h.ListLevels))
}

// ListDomains handles GET /api/domains
func (h *ReferenceHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.referenceService.ListDomainsWithMeasures(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch domains")
		return
	}
	writeOK(w, http.StatusOK, domains, h.logger)
}

// ListLevels handles GET /api/levels
func (h *ReferenceHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.referenceService.ListDevelopmentalLevels(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch developmental levels")
		return
	}
	writeOK(w, http.StatusOK, levels, h.logger)
}
