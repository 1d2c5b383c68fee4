// Package wiring assembles the application services from a configuration.
package wiring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/config"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/messaging"
	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/plugin"
	"github.com/felixgeelhaar/storyreview/pkg/sdk"
	"github.com/felixgeelhaar/storyreview/pkg/storage"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Config     config.Config
	Logger     *slog.Logger
	Workspace  *Workspace
	Repository domain.StoryRepository
	Review     *application.ReviewService
	Ingestion  *application.IngestionService
	Audit      *application.AuditService
	// Notifications announces story events on the configured channels.
	Notifications *messaging.Registry

	loader *plugin.Loader
}

// BuildAppServices selects the repository and ingestion backend for
// cfg.DataSource and wires the services on top of them. Close releases
// tracker plugins.
func BuildAppServices(ctx context.Context, cfg config.Config, logger *slog.Logger) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	workspace := NewWorkspace(logger)
	services := &AppServices{
		Config:    cfg,
		Logger:    logger,
		Workspace: workspace,
		Audit:     workspace.Audit,
	}

	notifications, err := messaging.NewRegistry(&cfg.Notify, logger)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	notifications.Attach(workspace.Dispatcher)
	services.Notifications = notifications

	var backend domain.IngestionBackend
	switch cfg.DataSource {
	case config.DataSourceRemote:
		client, err := sdk.NewClient(cfg.Remote.BaseURL, sdk.WithTimeout(cfg.Remote.Timeout()))
		if err != nil {
			return nil, fmt.Errorf("remote data source: %w", err)
		}
		services.Repository = client
		backend = client

	default:
		services.loader = plugin.NewLoader()
		tracker, err := LoadTracker(ctx, cfg.Tracker, services.loader)
		if err != nil {
			services.Close()
			return nil, err
		}
		repo := storage.NewMemoryRepository(tracker)
		services.Repository = repo
		backend = storage.NewMockIngestion(repo, nil)
	}

	services.Review = application.NewReviewService(services.Repository, workspace.Dispatcher, cfg.Actor, logger)
	services.Ingestion = application.NewIngestionService(backend, workspace.Dispatcher, cfg.Actor, logger)

	logger.Debug("services ready",
		"data_source", string(cfg.DataSource),
		"tracker", cfg.Tracker.Kind,
		"actor", cfg.Actor,
		"notification_channels", len(notifications.Adapters()))
	return services, nil
}

// Close stops any tracker plugin processes.
func (s *AppServices) Close() {
	if s.loader != nil {
		s.loader.Cleanup()
	}
}
