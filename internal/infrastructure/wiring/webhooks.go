package wiring

import (
	"log/slog"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/config"
	"github.com/felixgeelhaar/daybrief/internal/infrastructure/webhook"
)

// LoadNotifier builds the outgoing webhook notifier, or nil when no
// endpoints are configured.
func LoadNotifier(cfg config.WebhooksConfig, logger *slog.Logger) *webhook.Notifier {
	if len(cfg.Endpoints) == 0 {
		return nil
	}

	endpoints := make([]webhook.Endpoint, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		endpoints = append(endpoints, webhook.Endpoint{
			Name:       ep.Name,
			URL:        ep.URL,
			Secret:     ep.Secret,
			Events:     ep.Events,
			MaxRetries: ep.MaxRetries,
			RetryDelay: ep.RetryDelay(),
		})
	}

	var deadLetter *webhook.DeadLetterStore
	if cfg.DeadLetterFile != "" {
		deadLetter = webhook.NewDeadLetterStore(cfg.DeadLetterFile)
	}
	logger.Info("item webhooks enabled", "endpoints", len(endpoints), "dead_letter_file", cfg.DeadLetterFile)
	return webhook.NewNotifier(endpoints, deadLetter, logger)
}
