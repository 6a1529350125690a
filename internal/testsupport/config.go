package testsupport

import (
	"path/filepath"
	"testing"

	"bisub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Retry delays are zeroed so failing providers do not slow tests down.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Translate.BaseDelayMS = 0
	cfgVal.Translate.AttemptTimeoutSeconds = 5
	cfgVal.Managed.APIKey = ""
	cfgVal.Compatible.APIKey = ""
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.API.Token = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCompatibleProvider points the config at an OpenAI-compatible endpoint.
func WithCompatibleProvider(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.Kind = config.ProviderCompatible
		b.cfg.Compatible.BaseURL = baseURL
		b.cfg.Compatible.APIKey = "test-key"
		b.cfg.Compatible.Model = "test-model"
	}
}

// WithTargetLanguage overrides the default target language.
func WithTargetLanguage(code string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translate.TargetLanguage = code
	}
}

// WithAPIToken requires bearer auth on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Token = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
