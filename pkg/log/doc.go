// Package log provides structured protocol tracing for Core discovery
// and connection handling.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events: probe and response datagrams, connection state
// transitions and errors. It is separate from operational logging (slog) -
// protocol capture provides a machine-readable trace for debugging
// discovery problems on unfamiliar networks.
//
// # Basic Usage
//
// Components take a Logger in their Config:
//
//	// For development: mirror events to the console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For field diagnostics: write a binary trace file
//	cfg.Trace, _ = log.NewFileLogger("discovery.rtrace")
//
//	// Both at once
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys.
// Reader iterates a file back, optionally applying a Filter; the
// rooncore-trace command builds on it for viewing, export and
// statistics.
package log
