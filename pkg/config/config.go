// Package config loads process-level solver settings from environment
// variables.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds solver process configuration.
type Config struct {
	LogLevel    slog.Level
	JournalPath string
}

// Load loads configuration from environment variables. DASP_LOG_LEVEL
// selects the log verbosity (debug, info, warn, error); DASP_JOURNAL
// names the SQLite journal file, empty meaning no journal.
func Load() *Config {
	return &Config{
		LogLevel:    parseLevel(os.Getenv("DASP_LOG_LEVEL")),
		JournalPath: os.Getenv("DASP_JOURNAL"),
	}
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
