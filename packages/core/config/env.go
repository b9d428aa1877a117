package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv
const (
	EnvIdleTimeout  = "HTTPC_IDLE_TIMEOUT"
	EnvCloseTimeout = "HTTPC_CLOSE_TIMEOUT"
	EnvDialTimeout  = "HTTPC_DIAL_TIMEOUT"
	EnvProxy        = "HTTPC_PROXY"
	EnvPrompt       = "HTTPC_PROMPT"
	EnvHistory      = "HTTPC_HISTORY"
	EnvLogLevel     = "HTTPC_LOG_LEVEL"
	EnvVerbose      = "HTTPC_VERBOSE"
	EnvPretty       = "HTTPC_PRETTY"
	EnvNoColor      = "HTTPC_NO_COLOR"
)

// FromEnv returns the settings present in the process environment
func FromEnv() *Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a partial config from lookup; unset or unparsable
// variables leave the field zero so Merge skips it.
func FromLookup(lookup func(string) (string, bool)) *Config {
	getString := func(key string) string {
		if val, ok := lookup(key); ok {
			return strings.TrimSpace(val)
		}
		return ""
	}
	getInt := func(key string) int {
		if i, err := strconv.Atoi(getString(key)); err == nil && i > 0 {
			return i
		}
		return 0
	}
	getBool := func(key string) *bool {
		switch strings.ToLower(getString(key)) {
		case "true", "1", "yes":
			return BoolPtr(true)
		case "false", "0", "no":
			return BoolPtr(false)
		}
		return nil
	}

	return &Config{
		IdleTimeout:  getInt(EnvIdleTimeout),
		CloseTimeout: getInt(EnvCloseTimeout),
		DialTimeout:  getInt(EnvDialTimeout),
		Proxy:        getString(EnvProxy),
		Prompt:       getString(EnvPrompt),
		History:      getString(EnvHistory),
		LogLevel:     getString(EnvLogLevel),
		Verbose:      getBool(EnvVerbose),
		Pretty:       getBool(EnvPretty),
		NoColor:      getBool(EnvNoColor),
	}
}
