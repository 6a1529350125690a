package config

import (
	"fmt"
	"os"
	"strings"

	"bisub/internal/segment"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranslate()
	c.normalizeProviders()
	c.normalizeOutput()
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranslate() {
	c.Translate.TargetLanguage = strings.TrimSpace(c.Translate.TargetLanguage)
	if c.Translate.TargetLanguage == "" {
		c.Translate.TargetLanguage = defaultTargetLanguage
	}
	c.Translate.Tone = strings.TrimSpace(c.Translate.Tone)
	if c.Translate.Tone == "" {
		c.Translate.Tone = defaultTone
	}
	if c.Translate.ChunkSize == 0 {
		c.Translate.ChunkSize = defaultChunkSize
	}
	if c.Translate.MaxAttempts == 0 {
		c.Translate.MaxAttempts = defaultMaxAttempts
	}
}

func (c *Config) normalizeProviders() {
	c.Provider.Kind = strings.ToLower(strings.TrimSpace(c.Provider.Kind))
	if c.Provider.Kind == "" {
		c.Provider.Kind = ProviderManaged
	}

	c.Managed.APIKey = strings.TrimSpace(c.Managed.APIKey)
	if c.Managed.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Managed.APIKey = strings.TrimSpace(value)
		}
	}
	c.Managed.Model = strings.TrimSpace(c.Managed.Model)
	c.Managed.BaseURL = strings.TrimRight(strings.TrimSpace(c.Managed.BaseURL), "/")

	c.Compatible.APIKey = strings.TrimSpace(c.Compatible.APIKey)
	if c.Compatible.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Compatible.APIKey = strings.TrimSpace(value)
		}
	}
	c.Compatible.BaseURL = strings.TrimRight(strings.TrimSpace(c.Compatible.BaseURL), "/")
	if c.Compatible.BaseURL == "" {
		if value, ok := os.LookupEnv("OPENAI_BASE_URL"); ok {
			c.Compatible.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Compatible.Model = strings.TrimSpace(c.Compatible.Model)
	if c.Compatible.TimeoutSeconds <= 0 {
		c.Compatible.TimeoutSeconds = defaultCompatTimeout
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Mode = strings.ToLower(strings.TrimSpace(c.Output.Mode))
	if c.Output.Mode == "" {
		c.Output.Mode = defaultOutputMode
	}
	if mode, err := segment.ParseOutputMode(c.Output.Mode); err == nil {
		c.Output.Mode = string(mode)
	}
	c.Output.ContentType = strings.ToLower(strings.TrimSpace(c.Output.ContentType))
	if c.Output.ContentType != "" {
		if ct, err := segment.ParseContentType(c.Output.ContentType); err == nil {
			c.Output.ContentType = string(ct)
		}
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("BISUB_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
	origins := c.API.CORSOrigins[:0]
	for _, origin := range c.API.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.API.CORSOrigins = origins
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
