package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the httpc configuration
type Config struct {
	IdleTimeout  int    `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`   // milliseconds
	CloseTimeout int    `json:"closeTimeout,omitempty" yaml:"closeTimeout,omitempty"` // milliseconds
	DialTimeout  int    `json:"dialTimeout,omitempty" yaml:"dialTimeout,omitempty"`   // milliseconds
	Proxy        string `json:"proxy,omitempty" yaml:"proxy,omitempty"`               // socks5://host:port
	Prompt       string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	History      string `json:"history,omitempty" yaml:"history,omitempty"` // SQLite path, "-" disables
	LogLevel     string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Verbose      *bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Pretty       *bool  `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	NoColor      *bool  `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetPretty() bool {
	return getBool(c.Pretty, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

func (c *Config) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Millisecond
}

func (c *Config) CloseTimeoutDuration() time.Duration {
	return time.Duration(c.CloseTimeout) * time.Millisecond
}

func (c *Config) DialTimeoutDuration() time.Duration {
	return time.Duration(c.DialTimeout) * time.Millisecond
}

// HistoryEnabled reports whether transactions should be recorded
func (c *Config) HistoryEnabled() bool {
	return c.History != "" && c.History != HistoryDisabled
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".httpc.yaml",
	".httpc.yml",
	"httpc.config.json",
	".httpcrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or ""
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// loadConfigFromFile loads configuration from a specific file. JSON files
// are decoded as JSON, everything else as YAML.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fileConfig := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, fileConfig)
	} else {
		err = yaml.Unmarshal(data, fileConfig)
	}
	if err != nil {
		return nil, err
	}

	return DefaultConfig().Merge(fileConfig), nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.IdleTimeout > 0 {
		result.IdleTimeout = other.IdleTimeout
	}
	if other.CloseTimeout > 0 {
		result.CloseTimeout = other.CloseTimeout
	}
	if other.DialTimeout > 0 {
		result.DialTimeout = other.DialTimeout
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Prompt != "" {
		result.Prompt = other.Prompt
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Pretty != nil {
		result.Pretty = other.Pretty
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
