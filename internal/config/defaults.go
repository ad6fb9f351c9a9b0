package config

const (
	defaultDatabasePath   = "~/.local/share/retitle/library.db"
	defaultLogDir         = "~/.local/share/retitle/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultMinTitleLength = 5
	defaultBatchSize      = 50
	defaultFallbackTitle  = "Image"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Fix: Fix{
			MinTitleLength: defaultMinTitleLength,
			BatchSize:      defaultBatchSize,
			FallbackTitle:  defaultFallbackTitle,
		},
	}
}
