// Package config handles configuration loading and management for httpc.
//
// It provides functionality for:
//   - Loading configuration from .httpc.yaml, httpc.config.json or .httpcrc files
//   - Default configuration values
//   - Layering environment variables and flags on top of the file
//   - Watching the config file so a running session picks up edits
package config
