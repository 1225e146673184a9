// Package logging configures the process-wide slog logger.
//
// The chat TUI owns the terminal, so interactive sessions log to a file;
// one-shot commands log to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// File permissions for the log file and its directory
const (
	DirPermissions  = 0o700
	FilePermissions = 0o600
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// sensitiveKeys are redacted from every record
var sensitiveKeys = []string{"token", "authorization", "api_key", "secret", "password", "de"}

// Options controls logger construction
type Options struct {
	Level   string
	Writer  io.Writer
	NoColor bool
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// New builds a tint logger writing to opts.Writer
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       ParseLevel(opts.Level),
		TimeFormat:  time.TimeOnly,
		NoColor:     opts.NoColor,
		ReplaceAttr: redact,
	}))
}

// Setup installs a logger as the slog default and returns it
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// SetupFile installs a default logger that appends to path.
// The returned closer must be called on shutdown.
func SetupFile(path, level string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, FilePermissions)
	if err != nil {
		return nil, err
	}
	Setup(Options{Level: level, Writer: f, NoColor: true})
	return f, nil
}

// Discard installs a logger that drops everything
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func redact(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if key == s {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}
