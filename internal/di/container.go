// Package di provides dependency injection configuration for the swatches
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/swatches/internal/config"
	"github.com/listenupapp/swatches/internal/di/providers"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/service"
	"github.com/listenupapp/swatches/internal/session"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// State layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvidePaletteService)

	// Page and request guards
	do.Provide(injector, providers.ProvideSite)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services in dependency order. The HTTP server is
// listening when it returns.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*session.TokenService](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.PaletteService](injector)

	if _, err := do.Invoke[*providers.SiteHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.MDNSServiceHandle](injector); err != nil {
		return err
	}

	return nil
}
