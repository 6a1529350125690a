package config

import (
	"errors"
	"fmt"
	"strings"

	"bisub/internal/language"
	"bisub/internal/segment"
	"bisub/internal/services/gemini"
)

// Validate ensures the configuration is usable. Provider credentials are not
// required here: commands that never translate must work without them, and
// providers report missing credentials as configuration errors when built.
func (c *Config) Validate() error {
	if err := c.validateTranslate(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.API.Bind == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	if _, err := language.Normalize(c.Translate.TargetLanguage); err != nil {
		return fmt.Errorf("translate.target_language: %w", err)
	}
	if c.Translate.ChunkSize < 1 {
		return errors.New("translate.chunk_size must be positive")
	}
	if c.Translate.MaxAttempts < 1 {
		return errors.New("translate.max_attempts must be positive")
	}
	if c.Translate.BaseDelayMS < 0 {
		return errors.New("translate.base_delay_ms must be non-negative")
	}
	if c.Translate.AttemptTimeoutSeconds < 0 {
		return errors.New("translate.attempt_timeout_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateProvider() error {
	switch c.Provider.Kind {
	case ProviderManaged:
	case ProviderCompatible:
	default:
		return fmt.Errorf("provider.kind must be %q or %q, got %q", ProviderManaged, ProviderCompatible, c.Provider.Kind)
	}
	if c.Managed.Model != "" && !gemini.ValidModel(c.Managed.Model) {
		return fmt.Errorf("managed.model must be one of %s, got %q", strings.Join(gemini.Models(), ", "), c.Managed.Model)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if _, err := segment.ParseOutputMode(c.Output.Mode); err != nil {
		return fmt.Errorf("output.mode: %w", err)
	}
	if c.Output.ContentType != "" {
		if _, err := segment.ParseContentType(c.Output.ContentType); err != nil {
			return fmt.Errorf("output.content_type: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
