// Package output renders httpc results for the terminal.
//
// The console formatter prints responses (raw in verbose mode, body only
// otherwise), help blocks, diagnostics and transaction history. The JSON
// formatter renders history for scripts.
package output
