package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHealth(t *testing.T, body []byte) HealthResponse {
	t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	require.True(t, env.Success)
	return env.Data
}

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	health := decodeHealth(t, resp.Body.Bytes())
	assert.Equal(t, StatusHealthy, health.Status)
	assert.Equal(t, StatusHealthy, health.Components["store"].Status)
	assert.Equal(t, "no active sessions", health.Components["store"].Message)
	assert.Equal(t, "no connected clients", health.Components["sse"].Message)
}

func TestHealthCheck_CountsSessions(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.do(http.MethodPost, "/api/v1/palette/colors", ApplyColorRequest{Code: "#abc"})

	health := decodeHealth(t, ts.api.Get("/health").Body.Bytes())
	assert.Equal(t, "1 active session", health.Components["store"].Message)
}

func TestHealthCheck_DegradedWithoutSSE(t *testing.T) {
	ts := setupTestServer(t, withoutSSE())
	defer ts.cleanup()

	health := decodeHealth(t, ts.api.Get("/health").Body.Bytes())
	assert.Equal(t, StatusDegraded, health.Status)
	assert.Equal(t, StatusDegraded, health.Components["sse"].Status)
}

func TestHealthCheck_UnhealthyAfterSSEShutdown(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	require.NoError(t, ts.sse.Shutdown(t.Context()))

	health := decodeHealth(t, ts.api.Get("/health").Body.Bytes())
	assert.Equal(t, StatusUnhealthy, health.Status)
	assert.Equal(t, StatusUnhealthy, health.Components["sse"].Status)
}

func TestHealthCheck_UnhealthyStore(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	require.NoError(t, ts.store.Close())

	health := decodeHealth(t, ts.api.Get("/health").Body.Bytes())
	assert.Equal(t, StatusUnhealthy, health.Status)
	assert.Equal(t, "session store unreachable", health.Components["store"].Message)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "no things", plural(0, "thing", "things"))
	assert.Equal(t, "1 thing", plural(1, "thing", "things"))
	assert.Equal(t, "3 things", plural(3, "thing", "things"))
}
