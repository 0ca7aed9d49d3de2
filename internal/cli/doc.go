// Package cli parses command-line arguments, builds the logger, and runs the
// stride commands. It owns process-level concerns like exit codes.
package cli
