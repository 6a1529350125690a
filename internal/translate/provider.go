package translate

import (
	"context"
	"strings"

	"bisub/internal/services"
	"bisub/internal/services/gemini"
	"bisub/internal/services/llm"
)

// Provider is a translation backend. The set of implementations is closed:
// ManagedProvider and CompatibleProvider. Complete performs exactly one
// request and returns the model's raw JSON content.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
	sealed()
}

// ManagedProvider translates through the first-party Gemini API.
type ManagedProvider struct {
	client *gemini.Client
}

// NewManagedProvider validates the managed configuration and builds the provider.
func NewManagedProvider(cfg gemini.Config, opts ...gemini.Option) (*ManagedProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "managed provider",
			"api key required (set managed.api_key or GEMINI_API_KEY)", nil)
	}
	if model := strings.TrimSpace(cfg.Model); model != "" && !gemini.ValidModel(model) {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "managed provider",
			"unsupported model "+model, nil)
	}
	return &ManagedProvider{client: gemini.NewClient(cfg, opts...)}, nil
}

func (p *ManagedProvider) Name() string { return "managed" }

func (p *ManagedProvider) Model() string { return p.client.Model() }

func (p *ManagedProvider) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	return p.client.GenerateJSON(ctx, model, systemPrompt, userPrompt)
}

func (p *ManagedProvider) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx)
}

func (p *ManagedProvider) sealed() {}

// CompatibleProvider translates through any OpenAI-compatible chat endpoint.
type CompatibleProvider struct {
	client *llm.Client
}

// NewCompatibleProvider validates the endpoint settings and builds the provider.
func NewCompatibleProvider(cfg llm.Config, opts ...llm.Option) (*CompatibleProvider, error) {
	client := llm.NewClient(cfg, opts...)
	if err := client.Validate(); err != nil {
		return nil, err
	}
	return &CompatibleProvider{client: client}, nil
}

func (p *CompatibleProvider) Name() string { return "compatible" }

func (p *CompatibleProvider) Model() string { return p.client.Model() }

func (p *CompatibleProvider) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	return p.client.CompleteJSON(ctx, model, systemPrompt, userPrompt)
}

func (p *CompatibleProvider) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx)
}

func (p *CompatibleProvider) sealed() {}
