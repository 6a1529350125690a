package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"bisub/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("BISUB_API_TOKEN", "")
	t.Chdir(t.TempDir())
	return tempHome
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "bisub", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "bisub") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.HistoryPath() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Provider.Kind != config.ProviderManaged {
		t.Fatalf("expected managed provider by default, got %q", cfg.Provider.Kind)
	}
	if cfg.Translate.ChunkSize != 10 || cfg.Translate.MaxAttempts != 3 {
		t.Fatalf("unexpected translate defaults %+v", cfg.Translate)
	}
	if cfg.BaseDelay() != time.Second {
		t.Fatalf("unexpected base delay %s", cfg.BaseDelay())
	}
	if cfg.AttemptTimeout() != 2*time.Minute {
		t.Fatalf("unexpected attempt timeout %s", cfg.AttemptTimeout())
	}
	if cfg.API.Bind != "127.0.0.1:7490" {
		t.Fatalf("unexpected api bind: %q", cfg.API.Bind)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadUsesEnvironmentCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("OPENAI_BASE_URL", "https://api.example.com/v1/")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Managed.APIKey != "gem-key" {
		t.Fatalf("expected managed key from env, got %q", cfg.Managed.APIKey)
	}
	if cfg.Compatible.APIKey != "oa-key" {
		t.Fatalf("expected compatible key from env, got %q", cfg.Compatible.APIKey)
	}
	if cfg.Compatible.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("expected trimmed base url from env, got %q", cfg.Compatible.BaseURL)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "bisub.toml")

	type payload struct {
		Translate struct {
			TargetLanguage string `toml:"target_language"`
			ChunkSize      int    `toml:"chunk_size"`
		} `toml:"translate"`
		Provider struct {
			Kind string `toml:"kind"`
		} `toml:"provider"`
		Compatible struct {
			BaseURL string `toml:"base_url"`
			APIKey  string `toml:"api_key"`
			Model   string `toml:"model"`
		} `toml:"compatible"`
		Output struct {
			Mode string `toml:"mode"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Translate.TargetLanguage = "Spanish"
	custom.Translate.ChunkSize = 25
	custom.Provider.Kind = "Compatible"
	custom.Compatible.BaseURL = "http://localhost:11434/v1"
	custom.Compatible.APIKey = "local"
	custom.Compatible.Model = "qwen2.5"
	custom.Output.Mode = "original-first"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Provider.Kind != config.ProviderCompatible {
		t.Fatalf("expected normalized provider kind, got %q", cfg.Provider.Kind)
	}
	if cfg.Translate.ChunkSize != 25 || cfg.Translate.TargetLanguage != "Spanish" {
		t.Fatalf("unexpected translate section %+v", cfg.Translate)
	}
	if cfg.Translate.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts to survive partial file, got %d", cfg.Translate.MaxAttempts)
	}
	if cfg.Output.Mode != "original-then-translation" {
		t.Fatalf("expected canonical output mode, got %q", cfg.Output.Mode)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "bisub.toml")
	if err := os.WriteFile(configPath, []byte("[translate]\nchunksize = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"provider kind":   func(c *config.Config) { c.Provider.Kind = "deepl" },
		"managed model":   func(c *config.Config) { c.Managed.Model = "gemini-1.0-pro" },
		"chunk size":      func(c *config.Config) { c.Translate.ChunkSize = 0 },
		"max attempts":    func(c *config.Config) { c.Translate.MaxAttempts = -1 },
		"negative delay":  func(c *config.Config) { c.Translate.BaseDelayMS = -5 },
		"output mode":     func(c *config.Config) { c.Output.Mode = "side-by-side" },
		"content type":    func(c *config.Config) { c.Output.ContentType = "vtt" },
		"target language": func(c *config.Config) { c.Translate.TargetLanguage = "??" },
		"log format":      func(c *config.Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Managed.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected sample model %q", cfg.Managed.Model)
	}
}

func TestEncodeMasksSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.Managed.APIKey = "super-secret-key"
	cfg.API.Token = "abc"
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if strings.Contains(out, "super-secret-key") {
		t.Fatalf("expected key to be masked: %s", out)
	}
	if !strings.Contains(out, "****-key") {
		t.Fatalf("expected masked suffix in output: %s", out)
	}
	if cfg.Managed.APIKey != "super-secret-key" {
		t.Fatal("Encode must not mutate the config")
	}
}
