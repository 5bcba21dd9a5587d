package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/swatches/internal/config"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/session"
	"github.com/listenupapp/swatches/internal/sse"
	"github.com/listenupapp/swatches/internal/store"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log)

	ctx, cancel := context.WithCancel(context.Background())
	manager.Start(ctx)

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the session store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the in-memory session store. Sessions expire with the
// same lifetime as their cookie.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := store.New(log, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: st}, nil
}

// ProvideTokenService provides the session cookie token service.
func ProvideTokenService(i do.Injector) (*session.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Session.Key == nil {
		log.Warn("No session key configured, generated one for this run; sessions will not survive a restart")
	}
	return session.NewTokenService(cfg.Session.Key, cfg.Session.TTL)
}
