package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"bisub/internal/services"
	"bisub/internal/services/llm"
)

const (
	// DefaultBaseURL is the public Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	defaultHTTPTimeout = 120 * time.Second
	defaultTemperature = 0.3
	jsonMimeType       = "application/json"
	maxResponseBytes   = 8 << 20
)

var managedModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.5-flash-lite",
}

// Models returns the closed set of model identifiers accepted by the managed
// provider.
func Models() []string {
	return slices.Clone(managedModels)
}

// ValidModel reports whether model belongs to the managed set.
func ValidModel(model string) bool {
	return slices.Contains(managedModels, strings.TrimSpace(model))
}

// Config holds the managed provider settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client issues generateContent requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a managed client. Empty model and base URL fall back to
// the defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Model returns the configured default model.
func (c *Client) Model() string {
	return c.cfg.Model
}

// HTTPStatusError reports a non-200 response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gemini request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateRequest struct {
	SystemInstruction content          `json:"system_instruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GenerateJSON sends one generateContent request constrained to JSON output
// and returns the concatenated text parts of the first candidate. An empty
// model uses the configured default; models outside the managed set are
// rejected as configuration errors.
func (c *Client) GenerateJSON(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "gemini", "generate", "api key required", nil)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = c.cfg.Model
	}
	if !ValidModel(model) {
		return "", services.Wrap(services.ErrConfiguration, "gemini", "generate",
			fmt.Sprintf("unsupported model %q (expected one of %s)", model, strings.Join(managedModels, ", ")), nil)
	}
	payload := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemPrompt}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: userPrompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      defaultTemperature,
			ResponseMimeType: jsonMimeType,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "gemini", "encode body", "", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "new request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "send", "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "read body", "", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTransport, "gemini", "send", "", &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrResponseFormat, "gemini", "decode response", "", err)
	}
	if len(decoded.Candidates) == 0 {
		if reason := decoded.PromptFeedback.BlockReason; reason != "" {
			return "", services.Wrap(services.ErrResponseFormat, "gemini", "generate", "blocked: "+reason, nil)
		}
		return "", services.Wrap(services.ErrResponseFormat, "gemini", "generate", "empty candidates", nil)
	}
	candidate := decoded.Candidates[0]
	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", services.Wrap(services.ErrResponseFormat, "gemini", "generate",
			fmt.Sprintf("empty content (finishReason=%q)", candidate.FinishReason), nil)
	}
	return out, nil
}

// HealthCheck verifies the key and model with a trivial JSON request.
func (c *Client) HealthCheck(ctx context.Context) error {
	out, err := c.GenerateJSON(ctx, "", "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := llm.DecodeContent(out, &parsed); err != nil || !parsed.OK {
		return services.Wrap(services.ErrResponseFormat, "gemini", "health", "unexpected response", err)
	}
	return nil
}
