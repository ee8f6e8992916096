// Package app initializes and holds long-lived application services,
// acting as a small dependency injection container for the CLI.
package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tgcrawl/tgcrawl/internal/logging"
	"github.com/tgcrawl/tgcrawl/internal/storage"
	"github.com/tgcrawl/tgcrawl/internal/storage/local"
)

// App holds the shared services built once at startup and passed to the
// commands that need them.
type App struct {
	logger *zap.Logger
	store  storage.Provider
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStorage exposes the configured snapshot store.
func (a *App) GetStorage() storage.Provider {
	return a.store
}

// NewApp creates the service container from Viper configuration. It is
// designed to fail fast if the environment is unusable, since every
// later failure of the same kind would abort a half-finished batch.
func NewApp() (*App, error) {
	logger, err := logging.New(viper.GetBool("logging.development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var store storage.Provider
	switch provider := viper.GetString("storage.provider"); provider {
	case "local":
		store, err = local.New(local.Config{BaseDir: viper.GetString("output.dir")})
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
	case "noop":
		logger.Info("Using no-op storage provider, snapshots will be discarded")
		store = storage.NoOpProvider{}
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", provider)
	}

	if addr := viper.GetString("metrics.addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("Starting metrics server", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	return &App{logger: logger, store: store}, nil
}

// Close flushes the logger buffers. Best effort: logging itself may be
// the thing that is failing.
func (a *App) Close() {
	_ = a.logger.Sync()
}
