package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestAPIError_Render(t *testing.T) {
	err := New(http.StatusUnprocessableEntity, "SCHEMA_ERROR", "missing columns")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	require.NoError(t, render.Render(w, r, err))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SCHEMA_ERROR", body["error_code"])
	assert.Equal(t, "missing columns", body["message"])
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError(
		[]string{"registrations"},
		[]string{"Year", "Type"},
		[]string{"date", "maker"},
	)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "SCHEMA_ERROR", err.ErrorCode)

	details, ok := err.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"registrations"}, details["missing_columns"])
	assert.Equal(t, []string{"Year", "Type"}, details["original_headers"])
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]ValidationError{
		{Field: "from_year", Message: "must be 1900 or later"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		statusCode int
		errorCode  string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid year range", ErrInvalidYearRange, http.StatusBadRequest, "INVALID_YEAR_RANGE"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"dataset not found", ErrDatasetNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
		{"no maker data", ErrNoMakerData, http.StatusNotFound, "NO_MAKER_DATA"},
		{"schema mismatch", ErrSchemaMismatch, http.StatusUnprocessableEntity, "SCHEMA_ERROR"},
		{"internal", ErrInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"service unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.statusCode, tt.err.StatusCode)
			assert.Equal(t, tt.errorCode, tt.err.ErrorCode)
		})
	}
}
