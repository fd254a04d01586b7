// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     slogmod
// Description: slog.Handler decorator applying module level filtering
// Author:      msto63
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package slogmod

import (
	"context"
	"log/slog"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// LevelTrace sits below slog.LevelDebug like the other slog levels, four apart
const LevelTrace = slog.LevelDebug - 4

// LevelCritical sits above slog.LevelError
const LevelCritical = slog.LevelError + 4

// settings is shared by every handler derived from one New call
type settings struct {
	moduleKey    string
	defaultLevel slog.Level
	filters      map[string]slog.Level
}

// Handler drops records below the level of the module named by the
// handler's attributes. The module is read from attributes added with
// WithAttrs (Logger.With) outside any group; the last one wins and only
// string values count. Attributes passed with the record itself are not
// inspected.
type Handler struct {
	next     slog.Handler
	settings *settings
	minLevel slog.Level
	grouped  bool
}

// New wraps next. next must be safe for concurrent use if the returned
// handler is used concurrently.
func New(next slog.Handler, moduleKey string, defaultLevel log.Level, filters modlevel.ModLevelMap) *Handler {
	s := &settings{
		moduleKey:    moduleKey,
		defaultLevel: ToSlogLevel(defaultLevel),
		filters:      make(map[string]slog.Level, len(filters)),
	}
	for module, level := range filters {
		s.filters[module] = ToSlogLevel(level)
	}
	return &Handler{next: next, settings: s, minLevel: s.defaultLevel}
}

// Enabled reports whether level reaches the handler's module level and
// the wrapped handler wants it
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.minLevel {
		return false
	}
	return h.next.Enabled(ctx, level)
}

// Handle forwards r unless it is below the module level
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs returns a handler whose module level reflects attrs
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.next = h.next.WithAttrs(attrs)
	if !h.grouped && len(h.settings.filters) > 0 {
		for _, a := range attrs {
			if a.Key != h.settings.moduleKey {
				continue
			}
			v := a.Value.Resolve()
			if v.Kind() != slog.KindString {
				continue
			}
			if level, ok := h.settings.filters[v.String()]; ok {
				nh.minLevel = level
			} else {
				nh.minLevel = h.settings.defaultLevel
			}
		}
	}
	return &nh
}

// WithGroup returns a handler whose later attributes are qualified by
// name and therefore no longer name a module
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.next = h.next.WithGroup(name)
	nh.grouped = true
	return &nh
}

// ToSlogLevel maps a log.Level onto the slog scale
func ToSlogLevel(level log.Level) slog.Level {
	switch level {
	case log.LevelTrace:
		return LevelTrace
	case log.LevelDebug:
		return slog.LevelDebug
	case log.LevelInfo:
		return slog.LevelInfo
	case log.LevelWarning:
		return slog.LevelWarn
	case log.LevelError:
		return slog.LevelError
	default:
		return LevelCritical
	}
}
