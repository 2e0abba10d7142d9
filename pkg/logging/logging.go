// Package logging builds the slog loggers used by the CLI and the engine.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Component is attached to every record.
const Component = "DirectedGraph"

// New returns a logger writing text or JSON records at the given level.
// Unknown levels fall back to info.
func New(format, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: Redact,
	}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("component", Component)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

var sensitiveKeys = map[string]bool{
	"password": true, "access_key": true, "secret_key": true, "token": true,
	"secret": true, "api_key": true, "session_token": true, "auth_token": true,
	"credential": true, "connection_string": true,
}

// Redact scrubs values of sensitive keys.
func Redact(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}

// DailyFileName is the log file name for day t.
func DailyFileName(t time.Time) string {
	return t.Format("20060102") + "_directed_graph.log"
}

// OpenDailyFile opens today's log file under dir for appending, creating
// dir if needed.
func OpenDailyFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	path := filepath.Join(dir, DailyFileName(time.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
