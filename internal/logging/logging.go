// Package logging builds the leveled console logger shared by the CLI,
// the terminal UI and the task store.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/utils"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "todolist",
	}
}

// New creates a logger writing to w. A nil writer logs to stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig creates a logger from string configuration values, as
// loaded from TOML or environment variables.
func NewFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(level)
	opts.Formatter = ParseFormatter(format)
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return New(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a string log level. Unknown values yield info.
func ParseLevel(level string) log.Level {
	switch utils.NormalizeName(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name. Unknown values yield text.
func ParseFormatter(format string) log.Formatter {
	switch utils.NormalizeName(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
