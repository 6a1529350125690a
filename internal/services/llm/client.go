package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bisub/internal/services"
)

const (
	component          = "llm"
	completionsPath    = "chat/completions"
	defaultHTTPTimeout = 120 * time.Second
	defaultTemperature = 0.3
	maxResponseBytes   = 8 << 20
)

// Config holds the endpoint settings for the compatible provider.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client talks to one OpenAI-compatible endpoint. Each call is a single HTTP
// round trip.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	temperature float64
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client; nil is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTemperature overrides the sampling temperature (default 0.3).
func WithTemperature(temperature float64) Option {
	return func(c *Client) { c.temperature = temperature }
}

// NewClient trims cfg and applies opts. Settings are checked by Validate, not
// here, so a misconfigured client can still report what is missing.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: timeout},
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured default model.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Validate reports missing connection settings as a configuration error.
func (c *Client) Validate() error {
	missing := ""
	switch {
	case c.cfg.BaseURL == "":
		missing = "base url"
	case c.cfg.APIKey == "":
		missing = "api key"
	case c.cfg.Model == "":
		missing = "model"
	}
	if missing != "" {
		return services.Wrap(services.ErrConfiguration, component, "validate", missing+" required", nil)
	}
	if u, err := url.Parse(c.cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return services.Wrap(services.ErrConfiguration, component, "validate", "invalid base url "+c.cfg.BaseURL, err)
	}
	return nil
}

// CompleteJSON sends one system/user exchange in JSON mode and returns the
// message content. An empty model uses the configured default.
func (c *Client) CompleteJSON(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" || userPrompt == "" {
		return "", services.Wrap(services.ErrValidation, component, "complete", "system and user prompts required", nil)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	if model = strings.TrimSpace(model); model == "" {
		model = c.cfg.Model
	}

	resp, raw, err := c.post(ctx, chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    c.temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrResponseFormat, component, "complete", "no choices in "+snippet(string(raw)), nil)
	}
	found := resp.firstContent()
	if found.text == "" {
		return "", services.Wrap(services.ErrResponseFormat, component, "complete", "", &emptyContentError{
			FinishReason: found.finishReason,
			Refusal:      found.refusal,
			Snippet:      snippet(string(raw)),
		})
	}
	return found.text, nil
}

// HealthCheck asks the model for {"ok":true} to prove the key, endpoint, and
// model all work.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.CompleteJSON(ctx, "", "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return err
	}
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := DecodeContent(content, &reply); err != nil {
		return services.Wrap(services.ErrResponseFormat, component, "health", "parse reply", err)
	}
	if !reply.OK {
		return services.Wrap(services.ErrResponseFormat, component, "health", "model did not answer ok", nil)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload chatRequest) (chatResponse, []byte, error) {
	var out chatResponse
	endpoint, err := url.JoinPath(c.cfg.BaseURL, completionsPath)
	if err != nil {
		return out, nil, services.Wrap(services.ErrConfiguration, component, "build url", "", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return out, nil, services.Wrap(services.ErrValidation, component, "encode request", "", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return out, nil, services.Wrap(services.ErrTransport, component, "new request", "", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, nil, services.Wrap(services.ErrTransport, component, "send", fmt.Sprintf("timeout %s", c.httpClient.Timeout), err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return out, nil, services.Wrap(services.ErrTransport, component, "read response", "", err)
	}
	if resp.StatusCode/100 != 2 {
		return out, raw, services.Wrap(services.ErrTransport, component, "send", "", &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		})
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, raw, services.Wrap(services.ErrResponseFormat, component, "decode response", snippet(string(raw)), err)
	}
	if out.Error != nil {
		return out, raw, services.Wrap(services.ErrTransport, component, "api error", strings.TrimSpace(out.Error.Message), nil)
	}
	return out, raw, nil
}
