package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings mirror the YAML logconf document.
type Settings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stderr, stdout, or a file path
}

// Setup builds the process logger. With an empty path it returns the default
// logger: text format at warn level on stderr, which keeps stdout clean for
// piped JSON.
func Setup(logconfPath string) (*slog.Logger, error) {
	settings := Settings{Level: "warn", Format: "text", Output: "stderr"}

	if strings.TrimSpace(logconfPath) != "" {
		raw, err := os.ReadFile(logconfPath)
		if err != nil {
			return nil, fmt.Errorf("open logconf: %w", err)
		}
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("parse logconf: %w", err)
		}
	}

	return New(settings)
}

// New builds a logger from explicit settings.
func New(settings Settings) (*slog.Logger, error) {
	output, err := openOutput(settings.Output)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(settings.Level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(settings.Format)) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler), nil
}

// openOutput maps the configured destination to a writer. File destinations
// append so repeated invocations accumulate in one log.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log output: %w", err)
	}
	return file, nil
}

// parseLevel converts a string log level to slog.Level, defaulting to warn.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
