// Package testutil provides test utilities for structured logging.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	logger, _ := NewCaptureLogger(t)
	return logger
}

// NewCaptureLogger is NewTestLogger that also keeps every record so a test
// can assert on what was logged.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	t.Helper()
	capture := &LogCapture{}
	text := slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(captureHandler{Handler: text, capture: capture}), capture
}

// LogCapture holds the records seen by a capture logger.
type LogCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

// Messages returns the messages logged at level or above, in order.
func (c *LogCapture) Messages(level slog.Level) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, r := range c.records {
		if r.Level >= level {
			out = append(out, r.Message)
		}
	}
	return out
}

// Attr returns the value of key on the first record with message msg.
func (c *LogCapture) Attr(msg, key string) (slog.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.Message != msg {
			continue
		}
		var found slog.Value
		ok := false
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				found, ok = a.Value, true
				return false
			}
			return true
		})
		return found, ok
	}
	return slog.Value{}, false
}

type captureHandler struct {
	slog.Handler
	capture *LogCapture
}

func (h captureHandler) Handle(ctx context.Context, r slog.Record) error {
	h.capture.mu.Lock()
	h.capture.records = append(h.capture.records, r.Clone())
	h.capture.mu.Unlock()
	return h.Handler.Handle(ctx, r)
}

// WithAttrs and WithGroup keep the capture; attrs added this way are only
// visible in the text output.
func (h captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return captureHandler{Handler: h.Handler.WithAttrs(attrs), capture: h.capture}
}

func (h captureHandler) WithGroup(name string) slog.Handler {
	return captureHandler{Handler: h.Handler.WithGroup(name), capture: h.capture}
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
