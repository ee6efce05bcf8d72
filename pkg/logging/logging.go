// Package logging sets up structured logging for the dashboard.
//
// A TUI owns the terminal, so log output goes to a per-session JSON file
// under the user state directory instead of stdout. Warnings and errors are
// additionally captured in a bounded in-memory ring; the status widget tails
// that ring so recoverable failures (bad reloads, rejected plugins) stay
// visible to the user without breaking the frame.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultRingSize = 128

// Entry is one captured warning or error.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Ring keeps the most recent warning/error entries.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	size    int
}

// NewRing creates a ring holding at most size entries.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Ring{size: size}
}

// Append records an entry, evicting the oldest past capacity.
func (r *Ring) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if len(r.entries) > r.size {
		r.entries = r.entries[len(r.entries)-r.size:]
	}
}

// Recent returns up to limit entries, newest first.
func (r *Ring) Recent(limit int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(r.entries) - 1; i >= len(r.entries)-limit; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

// Len returns the number of captured entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ringHandler mirrors warn-and-above records into a Ring before delegating.
type ringHandler struct {
	next slog.Handler
	ring *Ring
}

func (h *ringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ringHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelWarn {
		h.ring.Append(Entry{Time: rec.Time, Level: rec.Level, Message: rec.Message})
	}
	return h.next.Handle(ctx, rec)
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringHandler{next: h.next.WithAttrs(attrs), ring: h.ring}
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	return &ringHandler{next: h.next.WithGroup(name), ring: h.ring}
}

// Setup opens a session log file under dir and returns a logger writing
// JSON records to it, the ring mirroring recoverable failures, and a close
// function for shutdown.
func Setup(dir string) (*slog.Logger, *Ring, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("session-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, ring := NewWithWriter(f)
	return logger, ring, f.Close, nil
}

// NewWithWriter builds the logger and ring over an arbitrary writer
// (tests use a bytes.Buffer or io.Discard).
func NewWithWriter(w io.Writer) (*slog.Logger, *Ring) {
	ring := NewRing(defaultRingSize)
	handler := &ringHandler{
		next: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		ring: ring,
	}
	return slog.New(handler), ring
}

// Discard returns a logger that keeps the ring but writes records nowhere.
func Discard() (*slog.Logger, *Ring) {
	return NewWithWriter(io.Discard)
}

// DefaultDir returns the per-user log directory.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "statboard", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "statboard", "logs")
	}
	return filepath.Join(home, ".local", "state", "statboard", "logs")
}
