package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/journal"
)

// journalHandler is a slog.Handler sending records to the systemd journal.
type journalHandler struct {
	attrs []slog.Attr
}

// Handle sends a single record to the journal.
func (h *journalHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]string, record.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = fmt.Sprintf("%v", a.Value.Any())
	}
	record.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = fmt.Sprintf("%v", a.Value.Any())
		return true
	})

	return journal.Send(record.Message, priority(record.Level), fields)
}

// Enabled implements slog.Handler.
func (h *journalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= globalLevel.Level()
}

// WithAttrs implements slog.Handler.
func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &journalHandler{attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)}
}

// WithGroup implements slog.Handler.
func (h *journalHandler) WithGroup(string) slog.Handler {
	return h
}

func priority(level slog.Level) journal.Priority {
	switch {
	case level <= slog.LevelDebug:
		return journal.PriDebug
	case level <= slog.LevelInfo:
		return journal.PriInfo
	case level <= slog.LevelWarn:
		return journal.PriWarning
	case level <= slog.LevelError:
		return journal.PriErr
	default:
		return journal.PriCrit
	}
}
