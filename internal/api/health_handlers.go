package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component and overall health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"store": s.checkStore(ctx),
		"sse":   s.checkSSEManager(),
	}

	overall := StatusHealthy
	for _, c := range components {
		switch c.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkStore verifies the session store answers.
func (s *Server) checkStore(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  StatusDegraded,
			Message: "store not configured",
		}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	var count int
	if err == nil {
		count, err = s.store.SessionCount(ctx)
	}
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  StatusUnhealthy,
			Latency: latency.String(),
			Message: "session store unreachable",
		}
	}

	return ComponentHealth{
		Status:  StatusHealthy,
		Latency: latency.String(),
		Message: plural(count, "active session", "active sessions"),
	}
}

// checkSSEManager reports whether live updates are being accepted.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{
			Status:  StatusDegraded,
			Message: "SSE manager not configured",
		}
	}
	if s.sseManager.IsShutdown() {
		return ComponentHealth{
			Status:  StatusUnhealthy,
			Message: "SSE manager shut down",
		}
	}

	return ComponentHealth{
		Status:  StatusHealthy,
		Message: plural(s.sseManager.ClientCount(), "connected client", "connected clients"),
	}
}

func plural(n int, one, many string) string {
	switch n {
	case 0:
		return "no " + many
	case 1:
		return "1 " + one
	default:
		return strconv.Itoa(n) + " " + many
	}
}
