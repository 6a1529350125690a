package translate

import (
	"log/slog"

	"bisub/internal/config"
	"bisub/internal/services"
	"bisub/internal/services/gemini"
	"bisub/internal/services/llm"
)

// NewProviderFromConfig builds the provider selected by provider.kind.
func NewProviderFromConfig(cfg *config.Config) (Provider, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "provider", "config unavailable", nil)
	}
	switch cfg.Provider.Kind {
	case config.ProviderCompatible:
		return NewCompatibleProvider(llm.Config{
			APIKey:         cfg.Compatible.APIKey,
			BaseURL:        cfg.Compatible.BaseURL,
			Model:          cfg.Compatible.Model,
			TimeoutSeconds: cfg.Compatible.TimeoutSeconds,
		})
	case config.ProviderManaged, "":
		return NewManagedProvider(gemini.Config{
			APIKey:  cfg.Managed.APIKey,
			Model:   cfg.Managed.Model,
			BaseURL: cfg.Managed.BaseURL,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "translate", "provider",
			"unknown provider kind "+cfg.Provider.Kind, nil)
	}
}

// PolicyFromConfig maps the translate section onto a retry policy.
func PolicyFromConfig(cfg *config.Config) Policy {
	policy := DefaultPolicy()
	if cfg == nil {
		return policy
	}
	policy.MaxAttempts = cfg.Translate.MaxAttempts
	policy.BaseDelay = cfg.BaseDelay()
	policy.AttemptTimeout = cfg.AttemptTimeout()
	return policy
}

// NewBatchFromConfig wires the configured provider and retry policy.
func NewBatchFromConfig(cfg *config.Config, logger *slog.Logger) (*Batch, error) {
	provider, err := NewProviderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewBatch(provider, PolicyFromConfig(cfg), logger), nil
}
