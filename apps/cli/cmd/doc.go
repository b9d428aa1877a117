// Package cmd implements the httpc CLI commands using Cobra.
//
// Available commands:
//   - (none): Start the interactive prompt
//   - get, post: Run a single request from the shell
//   - help: Print usage for httpc, get or post
//   - history: List recorded transactions and latency statistics
//   - validate: Check a command without executing it
//   - bench: Repeat a request and report latency percentiles
//   - import curl: Convert curl commands into httpc commands
//   - version: Show httpc version information
//
// Settings come from defaults, a config file, HTTPC_* environment
// variables and flags, in increasing precedence.
package cmd
