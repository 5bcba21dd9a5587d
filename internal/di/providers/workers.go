package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/swatches/internal/config"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/ratelimit"
	"github.com/listenupapp/swatches/internal/service"
	"github.com/listenupapp/swatches/internal/web"
)

// ProvidePaletteService provides the palette service.
func ProvidePaletteService(i do.Injector) (*service.PaletteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPaletteService(storeHandle.Store, sseHandle.Manager, log), nil
}

// RateLimiterHandle wraps the per-client rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the limiter for mutating palette requests.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.PerMinute(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// SiteHandle wraps the widget page and its development file watcher.
type SiteHandle struct {
	*web.Site
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *SiteHandle) Shutdown() error {
	if h.cancel == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return nil
}

// ProvideSite provides the widget page. When served from a directory, edits
// to the template and static files are picked up without a restart.
func ProvideSite(i do.Injector) (*SiteHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	site, err := web.New(cfg.Web.Dir, log)
	if err != nil {
		return nil, err
	}
	handle := &SiteHandle{Site: site}
	if !site.Dev() {
		return handle, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle.cancel = cancel
	handle.done = make(chan struct{})

	go func() {
		defer close(handle.done)
		if err := site.Watch(ctx, nil); err != nil {
			log.Error("Page watcher stopped", "error", err)
		}
	}()

	log.Info("Serving page from disk with live reload", "dir", cfg.Web.Dir)
	return handle, nil
}
