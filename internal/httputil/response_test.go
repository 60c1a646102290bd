package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrapped forbidden", apperrors.Wrap(apperrors.ErrForbidden, "lease"), http.StatusForbidden, "forbidden"},
		{"unknown", apperrors.New("database exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext(t)
			HandleErrorGin(c, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestHandleErrorGinHidesInternalDetails(t *testing.T) {
	c, recorder := newTestContext(t)
	HandleErrorGin(c, apperrors.New("secret connection string leaked"), discardLogger())

	assert.NotContains(t, recorder.Body.String(), "secret connection string")
}

func TestHandleErrorGinNilError(t *testing.T) {
	c, recorder := newTestContext(t)
	HandleErrorGin(c, nil, discardLogger())
	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := newTestContext(t)
	HandleBadRequestGin(c, apperrors.New("unexpected EOF"), discardLogger())

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body.Error)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := newTestContext(t)
	HandleValidationErrorGin(c, apperrors.New("ownerId: must not be blank"), discardLogger())

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error)
}
