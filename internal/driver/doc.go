// Package driver runs the hilo pipeline on snapshot files: read, lower, emit.
// It owns configuration loading, diagnostics collection, phase timings and
// the watch loop used by the CLI.
package driver
