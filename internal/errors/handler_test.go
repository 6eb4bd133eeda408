package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, includeStack)
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleError_APIError(t *testing.T) {
	h := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	h.HandleError(w, r, ErrSchemaMismatch)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeSchemaMismatch, body["type"])
	assert.Equal(t, "SCHEMA_ERROR", body["error_code"])
	assert.Equal(t, "/api/dashboard", body["instance"])
}

func TestHandleError_WrappedAPIError(t *testing.T) {
	h := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/makers/growth", nil)

	wrapped := errors.Join(errors.New("load failed"), ErrNoMakerData)
	h.HandleError(w, r, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeNoMakerData, body["type"])
}

func TestHandleError_ContextDeadline(t *testing.T) {
	h := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/trends/monthly", nil)

	h.HandleError(w, r, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeTimeout, body["type"])
}

func TestHandleError_UnknownError(t *testing.T) {
	h := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/filters", nil)

	h.HandleError(w, r, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	// Internal details never leak to clients
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestHandleError_NilError(t *testing.T) {
	h := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	h.HandleError(w, r, nil)

	assert.Empty(t, w.Body.String())
}

func TestHandlePanic(t *testing.T) {
	h := newTestHandler(true)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	h.HandlePanic(w, r, "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, "boom", body["panic"])
	assert.Contains(t, body, "stack")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler(false)
	mw := RecoveryMiddleware(h)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, r)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	h.NotFound(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil)
	h.MethodNotAllowed(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusBadRequest,
		TypeYearRange,
		"Invalid Year Range",
		"from_year must not exceed to_year",
		"/api/dashboard",
	).WithExtension("from_year", 2024).WithExtension("to_year", 2020)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeYearRange, body["type"])
	assert.Equal(t, float64(2024), body["from_year"])
	assert.Equal(t, float64(2020), body["to_year"])
}
