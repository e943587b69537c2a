package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// swapHandler delegates to a handler that can be replaced at runtime.
// Attributes and groups added through WithAttrs/WithGroup are replayed on
// the current delegate at Handle time.
type swapHandler struct {
	current atomic.Pointer[slog.Handler]
	attrs   []slog.Attr
	group   string
	parent  *swapHandler
}

func (h *swapHandler) set(next slog.Handler) {
	h.current.Store(&next)
}

func (h *swapHandler) delegate() slog.Handler {
	if h.parent != nil {
		base := h.parent.delegate()
		if h.group != "" {
			return base.WithGroup(h.group)
		}
		return base.WithAttrs(h.attrs)
	}
	if p := h.current.Load(); p != nil {
		return *p
	}
	return slog.Default().Handler()
}

func (h *swapHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.delegate().Enabled(ctx, l)
}

func (h *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.delegate().Handle(ctx, r)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &swapHandler{parent: h, attrs: attrs}
}

func (h *swapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &swapHandler{parent: h, group: name}
}
