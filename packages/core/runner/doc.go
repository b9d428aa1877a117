// Package runner connects the command parser to the transaction engine.
//
// Dispatch turns a validated command line into an action, resolving a POST
// body from a file when -f is used. Runner executes one line end to end and
// prints the outcome; Session is the read-eval-print loop around it.
package runner
