package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/session"
)

// writeGrace is how long a single event write may take before the connection
// is considered dead. Heartbeats keep extending it.
const writeGrace = 2 * defaultHeartbeatInterval

// Handler streams a session's palette events at GET /api/v1/palette/stream.
type Handler struct {
	manager *Manager
	logger  *logger.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(manager *Manager, log *logger.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  log.WithComponent("sse"),
	}
}

// ServeHTTP handles the SSE connection. The session middleware must have
// attached a session id to the request context.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "Session required", http.StatusUnauthorized)
		return
	}

	if r.Context().Err() != nil {
		return
	}
	if h.manager.IsShutdown() {
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)

	// The server write timeout would otherwise cut the stream short.
	_ = rc.SetWriteDeadline(time.Now().Add(writeGrace))

	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", "error", err)
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect(sessionID)
	if err != nil {
		h.logger.Error("failed to register SSE client", "error", err)
		http.Error(w, "Failed to establish connection", http.StatusInternalServerError)
		return
	}
	defer h.manager.Disconnect(client.ID)

	clientLogger := h.logger.WithField("client_id", client.ID)

	if err := h.sendEvent(w, rc, "connected", map[string]string{
		"client_id": client.ID,
		"message":   "SSE connection established",
	}); err != nil {
		clientLogger.Warn("failed to send initial connection message", "error", err)
		return
	}

	ctx := r.Context()
	for {
		select {
		case event := <-client.EventChan:
			if err := h.sendEvent(w, rc, string(event.Type), event); err != nil {
				clientLogger.Info("client disconnected during send")
				return
			}

		case <-client.Done:
			clientLogger.Info("client closed by manager")
			return

		case <-ctx.Done():
			clientLogger.Debug("client context canceled")
			return
		}
	}
}

// sendEvent writes one event in SSE wire format and flushes it.
func (h *Handler) sendEvent(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, jsonData); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}

	if err := rc.SetWriteDeadline(time.Now().Add(writeGrace)); err != nil {
		h.logger.Debug("failed to set write deadline", "error", err)
	}
	return nil
}
