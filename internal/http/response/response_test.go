package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/logger"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, map[string]string{"hex": "#ffffff"}, logger.Discard())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"hex": "#ffffff"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, domainerrors.CodeNotFound, "color color-9 not found", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "color color-9 not found", body["error"])
	assert.Equal(t, "color color-9 not found", body["message"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "details")
}

func TestShortcuts(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "session required", nil) }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unavailable", func(w http.ResponseWriter) { Unavailable(w, "shutting down", nil) }, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"too many requests", func(w http.ResponseWriter) { TooManyRequests(w, "slow down", 0, nil) }, http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode(t, rec)["code"])
		})
	}
}

func TestTooManyRequests_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()

	TooManyRequests(rec, "slow down", 1500*time.Millisecond, nil)

	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, domainerrors.InvalidColor("zz"), logger.Discard())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INVALID_COLOR", body["code"])
	assert.Equal(t, map[string]any{"input": "zz"}, body["details"])
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()

	err := errors.Join(errors.New("context"), domainerrors.Validation("bad body"))
	HandleError(rec, err, logger.Discard())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad body", decode(t, rec)["message"])
}

func TestHandleError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, errors.New("badger: disk on fire"), logger.Discard())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.NotContains(t, body["message"], "badger", "internal details are not leaked")
}

func TestFail_ErrorIsString(t *testing.T) {
	data, err := json.Marshal(Fail("CONFLICT", "exists", map[string]string{"id": "x"}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.IsType(t, "", body["error"])
	assert.Equal(t, map[string]any{"id": "x"}, body["details"])
}
