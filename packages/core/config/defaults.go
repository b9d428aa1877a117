package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultIdleTimeout  = 3000  // 3 seconds
	DefaultCloseTimeout = 1000  // 1 second
	DefaultDialTimeout  = 10000 // 10 seconds
	DefaultPrompt       = "httpc > "
	DefaultLogLevel     = "warn"

	// HistoryDisabled as the history path turns recording off
	HistoryDisabled = "-"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		IdleTimeout:  DefaultIdleTimeout,
		CloseTimeout: DefaultCloseTimeout,
		DialTimeout:  DefaultDialTimeout,
		Prompt:       DefaultPrompt,
		History:      DefaultHistoryPath(),
		LogLevel:     DefaultLogLevel,
		Verbose:      BoolPtr(false),
		Pretty:       BoolPtr(false),
		NoColor:      BoolPtr(false),
	}
}

// DefaultHistoryPath returns ~/.httpc/history.db, or "" when there is no home directory
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".httpc", "history.db")
}
