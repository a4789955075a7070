// Package logging configures amplictl's structured logger.
//
// The logger wraps Go's log/slog. By default it writes text at warn level to
// stderr: stdout is reserved for command output so JSON piping stays clean.
//
// An optional YAML logconf file (via --logconf or the LOGCONF environment
// variable) adjusts it:
//
//	level: debug    # debug, info, warn, error
//	format: json    # text, json
//	output: stderr  # stderr, stdout, or a file path (appended)
package logging
