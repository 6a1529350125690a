// Package config loads, normalizes, and validates bisub configuration.
//
// Configuration is TOML (~/.config/bisub/config.toml, falling back to
// ./bisub.toml). Load applies defaults, expands paths, pulls provider
// credentials from GEMINI_API_KEY / OPENAI_API_KEY / OPENAI_BASE_URL when the
// file leaves them empty, and rejects unknown keys. CreateSample writes the
// embedded, commented sample used by `bisub config init`.
package config
