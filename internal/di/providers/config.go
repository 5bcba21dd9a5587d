// Package providers contains dependency injection providers for the swatches
// server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/swatches/internal/config"
	"github.com/listenupapp/swatches/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.IsDevelopment(),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting swatches server",
		"name", cfg.Server.Name,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"web_dir", cfg.Web.Dir,
	)

	return log, nil
}
