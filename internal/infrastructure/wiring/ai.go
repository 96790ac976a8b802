package wiring

import (
	"log/slog"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/daybrief/pkg/ai"
	domainai "github.com/felixgeelhaar/daybrief/pkg/domain/ai"
)

// LoadAIProvider returns the resilient backend for cfg, or nil when the
// backend is disabled.
func LoadAIProvider(cfg config.AIConfig, logger *slog.Logger) (domainai.Provider, error) {
	if !cfg.Enabled() {
		logger.Info("reasoning backend disabled, using rule-based ranking", "provider", cfg.Provider)
		return nil, nil
	}

	resilienceConfig := infraai.DefaultResilienceConfig()
	if cfg.MaxRetries > 0 {
		resilienceConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.TimeoutSec > 0 {
		resilienceConfig.Timeout = cfg.Timeout()
	}

	provider, err := infraai.NewResilientProviderByName(cfg.Provider, cfg.Model, cfg.APIKey, resilienceConfig)
	if err != nil {
		return nil, err
	}
	logger.Info("reasoning backend enabled", "provider", provider.ID(), "timeout", resilienceConfig.Timeout)
	return provider, nil
}
