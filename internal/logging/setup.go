// Package logging builds the slog handlers used by the CLI and by library
// consumers that do not bring their own.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Formats accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Levels lists the accepted level names.
var Levels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// ValidateLevel reports whether name is an accepted level (empty means info).
func ValidateLevel(name string) error {
	if name == "" {
		return nil
	}

	for _, l := range Levels {
		if strings.EqualFold(l, name) {
			return nil
		}
	}

	return fmt.Errorf("unknown log level %q", name)
}

// SetupHandlerText configures a charmbracelet/log text handler. Trace adds
// caller information; trace and debug add timestamps.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	opts := log.Options{Level: log.InfoLevel}

	switch strings.ToLower(logLevel) {
	case "trace":
		opts.ReportCaller = true
		opts.ReportTimestamp = true
		opts.Level = log.DebugLevel
	case "debug":
		opts.ReportTimestamp = true
		opts.Level = log.DebugLevel
	case "warn", "warning":
		opts.Level = log.WarnLevel
	case "error":
		opts.Level = log.ErrorLevel
	}

	return log.NewWithOptions(writer, opts)
}

// SetupHandlerJSON configures a JSON slog handler. Trace adds source locations.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch strings.ToLower(logLevel) {
	case "trace":
		opts.AddSource = true
		opts.Level = slog.LevelDebug
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	return slog.NewJSONHandler(writer, opts)
}

// Setup returns the handler for format ("text" or "json"; empty means text).
func Setup(format, logLevel string, writer io.Writer) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return SetupHandlerText(logLevel, writer), nil
	case FormatJSON:
		return SetupHandlerJSON(logLevel, writer), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
