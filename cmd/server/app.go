package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/giftwise/internal/bootstrap"
	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/metrics"
	"github.com/phrazzld/giftwise/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	// registry is nil when metrics are disabled.
	registry    *prometheus.Registry
	ideaService service.IdeaService
}

// newApplication creates an application with all dependencies initialized.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		promRecorder, err := metrics.NewPrometheusRecorder(app.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		recorder = promRecorder
	}

	var err error
	app.ideaService, err = bootstrap.NewIdeaService(cfg, nil, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize idea service: %w", err)
	}

	logger.Info("Application initialized successfully",
		"providers", app.ideaService.Providers(),
		"default_provider", app.ideaService.DefaultProvider())
	return app, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
