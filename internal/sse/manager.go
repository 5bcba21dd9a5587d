package sse

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/listenupapp/swatches/internal/id"
	"github.com/listenupapp/swatches/internal/logger"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	eventBufferSize          = 256
	clientBufferSize         = 32
)

// Client represents a connected SSE client.
type Client struct {
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
	ID          string
	SessionID   string

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Done) })
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHeartbeatInterval overrides how often heartbeats are broadcast.
func WithHeartbeatInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.heartbeatInterval = d
	}
}

// Manager fans events out to connected clients. A single broadcaster
// goroutine launched by Start drains the event queue; Emit never blocks.
type Manager struct {
	clients           map[string]*Client
	events            chan Event
	logger            *logger.Logger
	wg                sync.WaitGroup
	heartbeatInterval time.Duration
	mu                sync.RWMutex

	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates a new SSE Manager.
func NewManager(log *logger.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		clients:           make(map[string]*Client),
		events:            make(chan Event, eventBufferSize),
		logger:            log.WithComponent("sse"),
		heartbeatInterval: defaultHeartbeatInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the broadcast loop, which runs until ctx is canceled or the
// event queue is closed by Shutdown. Call it once.
func (m *Manager) Start(ctx context.Context) {
	// Registered before the goroutine exists so Shutdown always waits for it.
	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	m.logger.Info("SSE manager starting")

	heartbeatTicker := time.NewTicker(m.heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				return
			}
			m.broadcast(event)

		case <-heartbeatTicker.C:
			m.broadcast(NewHeartbeatEvent())

		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			return
		}
	}
}

// Shutdown stops accepting events, delivers what is queued, and disconnects
// every client.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("SSE manager shutdown initiated")

	// Close under the write lock so no Emit is mid-send.
	m.shutdownMu.Lock()
	if m.shutdown {
		m.shutdownMu.Unlock()
		return nil
	}
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	// The broadcast loop drains the queue itself when running; whatever it
	// leaves behind is delivered here.
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		for event := range m.events {
			m.broadcast(event)
		}
		close(done)
	}()

	var err error
	select {
	case <-done:
		m.logger.Info("SSE events drained")
	case <-ctx.Done():
		m.logger.Warn("SSE event drain timeout, some events may be lost")
		err = ctx.Err()
	}

	m.closeAllClients()
	m.logger.Info("SSE manager shutdown complete")
	return err
}

// broadcast delivers an event to the clients of its session.
func (m *Manager) broadcast(event Event) {
	var delivered, dropped, filtered int

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		if event.SessionID != "" && event.SessionID != client.SessionID {
			filtered++
			continue
		}

		// Slow clients lose events rather than stall everyone else.
		select {
		case client.EventChan <- event:
			delivered++
		default:
			dropped++
			m.logger.Warn("dropped event for slow client",
				"client_id", client.ID,
				"event_type", string(event.Type))
		}
	}

	if event.Type != EventHeartbeat {
		m.logger.Debug("event broadcast",
			"event_type", string(event.Type),
			"session_id", event.SessionID,
			"delivered", delivered,
			"filtered", filtered,
			"dropped", dropped)
	}
}

// Connect registers a client for sessionID.
func (m *Manager) Connect(sessionID string) (*Client, error) {
	clientID, err := id.Generate(id.PrefixClient)
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		SessionID:   sessionID,
		EventChan:   make(chan Event, clientBufferSize),
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	totalClients := len(m.clients)
	m.mu.Unlock()

	m.logger.Info("SSE client connected",
		"client_id", clientID,
		"session_id", sessionID,
		"total_clients", totalClients)
	return client, nil
}

// Disconnect removes a client. Its Done channel is closed; EventChan is left
// open so a concurrent broadcast can never send on a closed channel.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	totalClients := len(m.clients)
	m.mu.Unlock()

	client.close()

	m.logger.Info("SSE client disconnected",
		"client_id", clientID,
		"duration", time.Since(client.ConnectedAt),
		"total_clients", totalClients)
}

// Emit queues an event for broadcasting. Non-Event values are ignored.
func (m *Manager) Emit(event any) {
	evt, ok := event.(Event)
	if !ok {
		m.logger.Error("invalid event type emitted")
		return
	}

	// Read lock held through the send so Shutdown cannot close the queue
	// underneath us.
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()

	if m.shutdown {
		return
	}

	select {
	case m.events <- evt:
	default:
		m.logger.Error("SSE event queue full, dropping event",
			"event_type", string(evt.Type))
	}
}

// Clients iterates the connected clients.
func (m *Manager) Clients() iter.Seq[*Client] {
	return func(yield func(*Client) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, client := range m.clients {
			if !yield(client) {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// IsShutdown reports whether Shutdown has been called.
func (m *Manager) IsShutdown() bool {
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()
	return m.shutdown
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		client.close()
	}
	m.clients = make(map[string]*Client)

	m.logger.Info("all SSE clients disconnected")
}
