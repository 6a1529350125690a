package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Provider kinds accepted in [provider].kind.
const (
	ProviderManaged    = "managed"
	ProviderCompatible = "compatible"
)

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	OutputDir string `toml:"output_dir"`
}

// Translate contains run defaults and retry tuning.
type Translate struct {
	TargetLanguage        string `toml:"target_language"`
	Tone                  string `toml:"tone"`
	ChunkSize             int    `toml:"chunk_size"`
	MaxAttempts           int    `toml:"max_attempts"`
	BaseDelayMS           int    `toml:"base_delay_ms"`
	AttemptTimeoutSeconds int    `toml:"attempt_timeout_seconds"`
}

// Provider selects the translation backend.
type Provider struct {
	Kind string `toml:"kind"`
}

// Managed configures the first-party Gemini backend.
type Managed struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Compatible configures an OpenAI-compatible chat completion endpoint.
type Compatible struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Output contains serialization defaults.
type Output struct {
	Mode        string `toml:"mode"`
	ContentType string `toml:"content_type"`
}

// API configures the HTTP server started by `bisub serve`.
type API struct {
	Bind        string   `toml:"bind"`
	Token       string   `toml:"token"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bisub.
//
// Configuration sections by subsystem:
//   - Paths: state (history database), logs, and default export directory
//   - Translate: target language, tone, chunking, and retry policy
//   - Provider: which backend runs translations
//   - Managed / Compatible: backend credentials and models
//   - Output: default output mode and forced content type
//   - API: HTTP server bind address, bearer token, and CORS origins
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Translate  Translate  `toml:"translate"`
	Provider   Provider   `toml:"provider"`
	Managed    Managed    `toml:"managed"`
	Compatible Compatible `toml:"compatible"`
	Output     Output     `toml:"output"`
	API        API        `toml:"api"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates every configured directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the SQLite run ledger location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, historyFileName)
}

// BaseDelay returns the first retry backoff delay.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.Translate.BaseDelayMS) * time.Millisecond
}

// AttemptTimeout returns the per-attempt provider deadline; zero disables it.
func (c *Config) AttemptTimeout() time.Duration {
	return time.Duration(c.Translate.AttemptTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML with secrets masked.
func (c *Config) Encode() (string, error) {
	masked := *c
	masked.Managed.APIKey = maskSecret(masked.Managed.APIKey)
	masked.Compatible.APIKey = maskSecret(masked.Compatible.APIKey)
	masked.API.Token = maskSecret(masked.API.Token)
	data, err := toml.Marshal(masked)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
