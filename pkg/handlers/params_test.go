package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestParseAssessmentID(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		pathValue  string
		wantOK     bool
		wantStatus int
		wantError  string
	}{
		{
			name:      "valid UUID",
			pathValue: "550e8400-e29b-41d4-a716-446655440000",
			wantOK:    true,
		},
		{
			name:       "invalid UUID",
			pathValue:  "not-a-uuid",
			wantOK:     false,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_assessment_id",
		},
		{
			name:       "empty UUID",
			pathValue:  "",
			wantOK:     false,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_assessment_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.SetPathValue("id", tt.pathValue)
			rec := httptest.NewRecorder()

			id, ok := ParseAssessmentID(rec, req, logger)

			if ok != tt.wantOK {
				t.Errorf("ParseAssessmentID() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK {
				if id.String() != tt.pathValue {
					t.Errorf("ParseAssessmentID() id = %v, want %v", id, tt.pathValue)
				}
				return
			}

			if id != uuid.Nil {
				t.Errorf("ParseAssessmentID() id = %v, want uuid.Nil", id)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("ParseAssessmentID() status = %v, want %v", rec.Code, tt.wantStatus)
			}

			var resp map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["error"] != tt.wantError {
				t.Errorf("ParseAssessmentID() error = %v, want %v", resp["error"], tt.wantError)
			}
		})
	}
}

func TestParseStudentAndObservationIDs(t *testing.T) {
	logger := zap.NewNop()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("id", "bogus")

	rec := httptest.NewRecorder()
	if _, ok := ParseStudentID(rec, req, logger); ok {
		t.Error("ParseStudentID() accepted a malformed id")
	}
	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "invalid_student_id" {
		t.Errorf("ParseStudentID() error = %v", resp["error"])
	}

	rec = httptest.NewRecorder()
	if _, ok := ParseObservationID(rec, req, logger); ok {
		t.Error("ParseObservationID() accepted a malformed id")
	}
}

func TestParseQueryUUID(t *testing.T) {
	logger := zap.NewNop()
	valid := uuid.New()

	tests := []struct {
		name   string
		query  string
		wantID uuid.UUID
		wantOK bool
	}{
		{"absent", "", uuid.Nil, true},
		{"valid", "?rating_id=" + valid.String(), valid, true},
		{"malformed", "?rating_id=12", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/observations"+tt.query, nil)
			rec := httptest.NewRecorder()

			id, ok := parseQueryUUID(rec, req, "rating_id", logger)

			if ok != tt.wantOK {
				t.Errorf("parseQueryUUID() ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("parseQueryUUID() id = %v, want %v", id, tt.wantID)
			}
			if !tt.wantOK && rec.Code != http.StatusBadRequest {
				t.Errorf("parseQueryUUID() status = %v, want 400", rec.Code)
			}
		})
	}
}
