package providers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/samber/do/v2"

	"github.com/listenupapp/swatches/internal/api"
	"github.com/listenupapp/swatches/internal/config"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/mdns"
	"github.com/listenupapp/swatches/internal/service"
	"github.com/listenupapp/swatches/internal/session"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server. It is listening when this
// returns.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	siteHandle := do.MustInvoke[*SiteHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)
	paletteService := do.MustInvoke[*service.PaletteService](i)
	tokens := do.MustInvoke[*session.TokenService](i)

	handler := api.NewServer(api.Deps{
		Store:       storeHandle.Store,
		Palette:     paletteService,
		Tokens:      tokens,
		SSEManager:  sseHandle.Manager,
		Site:        siteHandle.Site,
		RateLimiter: limiterHandle.KeyedRateLimiter,
	}, api.Options{
		Name:           cfg.Server.Name,
		CookieSecure:   cfg.Session.CookieSecure,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Bind before returning so a busy port fails startup instead of a
	// background goroutine.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", ln.Addr().String())

	return &HTTPServerHandle{Server: srv}, nil
}

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{}, nil
	}

	// Advertise only once the server is accepting connections.
	_ = do.MustInvoke[*HTTPServerHandle](i)

	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		return nil, err
	}

	svc := mdns.NewService(log)
	err = svc.Start(mdns.Advertisement{
		Name:    cfg.Server.Name,
		Port:    port,
		Version: api.Version,
	})
	if err != nil {
		// Non-fatal: the widget works without discovery (e.g., Docker, cloud).
		log.Warn("mDNS advertisement unavailable", "error", err)
	}

	return &MDNSServiceHandle{Service: svc}, nil
}
