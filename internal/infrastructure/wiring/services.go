package wiring

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/config"
	"github.com/felixgeelhaar/daybrief/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/daybrief/pkg/application"
	domainai "github.com/felixgeelhaar/daybrief/pkg/domain/ai"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/felixgeelhaar/daybrief/pkg/storage"
)

// AppServices exposes the application layer wired to one item store.
type AppServices struct {
	Config   *config.Config
	Logger   *slog.Logger
	Clock    planning.Clock
	Store    *storage.InMemoryItemRepository
	Items    *application.ItemService
	Insights *application.InsightService
	Provider domainai.Provider
	Notifier *webhook.Notifier
}

// BuildAppServices constructs the service graph from resolved config.
func BuildAppServices(cfg *config.Config, logger *slog.Logger) (*AppServices, error) {
	return BuildAppServicesWithClock(cfg, logger, planning.SystemClock{})
}

// BuildAppServicesWithClock is BuildAppServices with an injected clock.
func BuildAppServicesWithClock(cfg *config.Config, logger *slog.Logger, clock planning.Clock) (*AppServices, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := LoadAIProvider(cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("configure reasoning backend: %w", err)
	}

	var backend *application.BackendRanker
	if provider != nil {
		backend = application.NewBackendRanker(provider, logger)
	}

	store := storage.NewInMemoryItemRepository()
	services := &AppServices{
		Config:   cfg,
		Logger:   logger,
		Clock:    clock,
		Store:    store,
		Items:    application.NewItemService(store, clock, logger),
		Insights: application.NewInsightService(clock, backend, logger),
		Provider: provider,
	}

	if cfg.Demo.Seed {
		if _, err := services.Items.SeedDemo(); err != nil {
			return nil, err
		}
		logger.Info("demo items seeded", "count", store.Count())
	}

	if notifier := LoadNotifier(cfg.Webhooks, logger); notifier != nil {
		notifier.Attach(store)
		services.Notifier = notifier
	}
	return services, nil
}
