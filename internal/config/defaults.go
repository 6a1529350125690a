package config

import "bisub/internal/services/gemini"

const (
	defaultConfigPath     = "~/.config/bisub/config.toml"
	projectConfigName     = "bisub.toml"
	historyFileName       = "history.db"
	defaultStateDir       = "~/.local/share/bisub"
	defaultLogDir         = "~/.local/share/bisub/logs"
	defaultTargetLanguage = "en"
	defaultTone           = "neutral"
	defaultChunkSize      = 10
	defaultMaxAttempts    = 3
	defaultBaseDelayMS    = 1000
	defaultAttemptTimeout = 120
	defaultCompatTimeout  = 120
	defaultOutputMode     = "translation-only"
	defaultAPIBind        = "127.0.0.1:7490"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Translate: Translate{
			TargetLanguage:        defaultTargetLanguage,
			Tone:                  defaultTone,
			ChunkSize:             defaultChunkSize,
			MaxAttempts:           defaultMaxAttempts,
			BaseDelayMS:           defaultBaseDelayMS,
			AttemptTimeoutSeconds: defaultAttemptTimeout,
		},
		Provider: Provider{Kind: ProviderManaged},
		Managed: Managed{
			Model:   gemini.DefaultModel,
			BaseURL: gemini.DefaultBaseURL,
		},
		Compatible: Compatible{
			TimeoutSeconds: defaultCompatTimeout,
		},
		Output: Output{
			Mode: defaultOutputMode,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
