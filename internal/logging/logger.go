// Package logging provides structured logging for skilldock using slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Options configures the logger behavior.
type Options struct {
	// Level sets the minimum log level. Defaults to slog.LevelInfo.
	Level slog.Level
	// Output sets the output destination. Defaults to os.Stderr.
	Output io.Writer
	// JSON enables JSON output format instead of text.
	JSON bool
}

var (
	defaultLogger *slog.Logger
	defaultOnce   sync.Once
)

// New creates a logger with the given options.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}
	return slog.New(handler)
}

// Default returns the process-wide logger, creating a quiet one (warn
// level, text, stderr) if none was set.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New(Options{Level: slog.LevelWarn})
		}
	})
	return defaultLogger
}

// SetDefault installs the process-wide logger. It also becomes slog's
// default.
func SetDefault(logger *slog.Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = logger
	slog.SetDefault(logger)
}

// Common attribute keys for consistent logging across the codebase.
const (
	KeySkill  = "skill"
	KeyTarget = "target"
	KeyPath   = "path"
	KeyRoot   = "root"
	KeyError  = "error"
	KeyCount  = "count"
)

// Skill returns a slog attribute identifying a skill by name.
func Skill(name string) slog.Attr { return slog.String(KeySkill, name) }

// Target returns a slog attribute identifying a target tool.
func Target(id string) slog.Attr { return slog.String(KeyTarget, id) }

// Path returns a slog attribute for a file path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Root returns a slog attribute for a scan root.
func Root(r string) slog.Attr { return slog.String(KeyRoot, r) }

// Count returns a slog attribute for item counts.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}
