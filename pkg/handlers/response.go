package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/logging"
)

// SuccessResponse is returned by delete endpoints.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ValidationErrorResponse lists the offending fields of a rejected request.
type ValidationErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service error onto the HTTP error contract.
// Store failures are logged here and reach the client as a generic 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	var writeErr error
	var verr *apperrors.ValidationError

	switch {
	case errors.As(err, &verr):
		writeErr = WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, apperrors.ErrValidation):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, apperrors.ErrUnauthenticated):
		writeErr = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	default:
		logger.Error(msg, append(fields, zap.String("error", logging.SanitizeError(err)))...)
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", msg)
	}

	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// decodeBody reads a JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, statusCode int, data any, logger *zap.Logger) {
	if err := WriteJSON(w, statusCode, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
