// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     zapmod
// Description: zapcore.Core decorator applying module level filtering
// Author:      msto63
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package zapmod

import (
	"go.uber.org/zap/zapcore"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// TraceLevel sits one step below zapcore.DebugLevel
const TraceLevel = zapcore.DebugLevel - 1

type settings struct {
	moduleKey    string
	defaultLevel zapcore.Level
	filters      map[string]zapcore.Level
}

// Core drops entries below the level of the module named by fields added
// with With. Only string fields count and the last one wins. Fields passed
// with the entry are not inspected.
type Core struct {
	next     zapcore.Core
	settings *settings
	minLevel zapcore.Level
}

var _ zapcore.Core = (*Core)(nil)

// New wraps next
func New(next zapcore.Core, moduleKey string, defaultLevel log.Level, filters modlevel.ModLevelMap) *Core {
	s := &settings{
		moduleKey:    moduleKey,
		defaultLevel: ToZapLevel(defaultLevel),
		filters:      make(map[string]zapcore.Level, len(filters)),
	}
	for module, level := range filters {
		s.filters[module] = ToZapLevel(level)
	}
	return &Core{next: next, settings: s, minLevel: s.defaultLevel}
}

// Enabled reports whether level reaches the module level and the wrapped
// core wants it
func (c *Core) Enabled(level zapcore.Level) bool {
	return level >= c.minLevel && c.next.Enabled(level)
}

// With returns a core whose module level reflects fields
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	nc := *c
	nc.next = c.next.With(fields)
	if len(c.settings.filters) == 0 {
		return &nc
	}
	for _, f := range fields {
		if f.Key != c.settings.moduleKey || f.Type != zapcore.StringType {
			continue
		}
		if level, ok := c.settings.filters[f.String]; ok {
			nc.minLevel = level
		} else {
			nc.minLevel = c.settings.defaultLevel
		}
	}
	return &nc
}

// Check hands the entry to the wrapped core unless it is below the module
// level
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.minLevel {
		return ce
	}
	return c.next.Check(ent, ce)
}

// Write forwards the entry unless it is below the module level
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ent.Level < c.minLevel {
		return nil
	}
	return c.next.Write(ent, fields)
}

// Sync flushes the wrapped core
func (c *Core) Sync() error {
	return c.next.Sync()
}

// ToZapLevel maps a log.Level onto the zap scale. Critical maps to
// DPanicLevel, the highest level that does not panic or exit.
func ToZapLevel(level log.Level) zapcore.Level {
	switch level {
	case log.LevelTrace:
		return TraceLevel
	case log.LevelDebug:
		return zapcore.DebugLevel
	case log.LevelInfo:
		return zapcore.InfoLevel
	case log.LevelWarning:
		return zapcore.WarnLevel
	case log.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.DPanicLevel
	}
}
