package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogHandler is a slog.Handler that forwards records to the client as
// `log` notifications, so the client sees the server's own logs
// without tailing stderr. Combine it with a terminal handler through
// logging.NewMultiHandler.
type LogHandler struct {
	server *Server
	level  slog.Leveler
	attrs  []slog.Attr
}

func NewLogHandler(s *Server, level slog.Leveler) *LogHandler {
	return &LogHandler{server: s, level: level}
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})

	h.server.Notify("log", logParams{
		Level:   strings.ToLower(r.Level.String()),
		Message: b.String(),
	})
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(next.attrs, h.attrs)
	copy(next.attrs[len(h.attrs):], attrs)
	return &next
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return h
}
