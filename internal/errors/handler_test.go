package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"schema", NewSchemaError("Sales", []string{"Date"}), http.StatusUnprocessableEntity, TypeSchema},
		{"integrity", NewDataIntegrityError("Sales", "Date", 1, "x", nil), http.StatusUnprocessableEntity, TypeDataIntegrity},
		{"ambiguity", fmt.Errorf("join: %w", NewJoinAmbiguityError("ProductKey", "1", 2)), http.StatusUnprocessableEntity, TypeJoinAmbiguity},
		{"validation", NewAppValidationError("bad field"), http.StatusBadRequest, TypeValidation},
		{"storage", NewStorageError("disk", io.EOF), http.StatusInternalServerError, TypeStorage},
		{"api error", ErrValidation("field", "unknown"), http.StatusBadRequest, TypeValidation},
		{"not found api error", NotFoundError("route"), http.StatusNotFound, TypeNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"unknown", io.ErrClosedPipe, http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/analytics", problem.Instance)
		})
	}
}

func TestErrorToProblem_HidesInternalDetail(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/daily", nil)

	problem := h.ErrorToProblem(NewStorageError("open /secret/path failed", nil), req)
	assert.NotContains(t, problem.Detail, "/secret/path")

	problem = h.ErrorToProblem(NewSchemaError("Sales", []string{"Costs"}), req)
	assert.Contains(t, problem.Detail, "Costs")
	assert.Equal(t, []string{"Costs"}, problem.Extensions["missing"])
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, NewJoinAmbiguityError("ProductKey", "7", 2))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeJoinAmbiguity, body["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, "JOIN_AMBIGUITY", body["error_code"])
	assert.Equal(t, "7", body["key"])
	assert.Contains(t, body, "trace_id")
}

func TestRecovery(t *testing.T) {
	h := newTestHandler()
	panicky := h.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	panicky.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, TypeInternal, problem["type"])
	assert.NotContains(t, problem, "panic")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, TypeNotFound, problem["type"])
	assert.Equal(t, "NOT_FOUND", problem["error_code"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/daily", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "/x").
		WithExtension("field", "allowed")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "allowed", got["field"])
	assert.Equal(t, "/x", got["instance"])
	assert.NotContains(t, got, "detail")
}

func TestAPIError_ToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantType   string
	}{
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, TypeServiceDown},
		{"internal", ErrInternalServer, http.StatusInternalServerError, TypeInternal},
		{"validation", ErrValidation("allowed", "too long"), http.StatusBadRequest, TypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := tt.err.ToProblem("/api/v1/daily")
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/daily", problem.Instance)
			assert.Equal(t, tt.err.ErrorCode, problem.Extensions["error_code"])
		})
	}
}
