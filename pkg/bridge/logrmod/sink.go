// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     logrmod
// Description: logr.LogSink decorator applying module level filtering
// Author:      msto63
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package logrmod

import (
	"github.com/go-logr/logr"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// Verbosity mapping between logr V-levels and log levels:
//
//	V(0)  -> info
//	V(1)  -> debug
//	V(2+) -> trace
//	Error -> error
const (
	InfoVerbosity  = 0
	DebugVerbosity = 1
	TraceVerbosity = 2
)

// settings is shared by every sink derived from one New call
type settings struct {
	moduleKey    string
	defaultLevel log.Level
	filters      modlevel.ModLevelMap
}

// Sink drops log lines below the level of the module set through
// WithValues. Only string values under the module key count; the last one
// wins. Key-value pairs passed to Info or Error are not inspected.
type Sink struct {
	next     logr.LogSink
	settings *settings
	minLevel log.Level
}

var _ logr.LogSink = (*Sink)(nil)
var _ logr.CallDepthLogSink = (*Sink)(nil)

// New wraps next. next must be safe for concurrent use if the returned
// sink is used concurrently.
func New(next logr.LogSink, moduleKey string, defaultLevel log.Level, filters modlevel.ModLevelMap) *Sink {
	return &Sink{
		next: next,
		settings: &settings{
			moduleKey:    moduleKey,
			defaultLevel: defaultLevel,
			filters:      filters.Clone(),
		},
		minLevel: defaultLevel,
	}
}

// NewLogger is shorthand for logr.New(New(...))
func NewLogger(next logr.LogSink, moduleKey string, defaultLevel log.Level, filters modlevel.ModLevelMap) logr.Logger {
	return logr.New(New(next, moduleKey, defaultLevel, filters))
}

// Init passes runtime information on, accounting for this sink's frame
func (s *Sink) Init(info logr.RuntimeInfo) {
	info.CallDepth++
	s.next.Init(info)
}

// Enabled reports whether a V-level line reaches the module level and the
// wrapped sink wants it
func (s *Sink) Enabled(level int) bool {
	return LevelFromVerbosity(level).IsAtLeast(s.minLevel) && s.next.Enabled(level)
}

// Info forwards the line unless it is below the module level
func (s *Sink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !LevelFromVerbosity(level).IsAtLeast(s.minLevel) {
		return
	}
	s.next.Info(level, msg, keysAndValues...)
}

// Error forwards the error unless the module level is above error
func (s *Sink) Error(err error, msg string, keysAndValues ...interface{}) {
	if !log.LevelError.IsAtLeast(s.minLevel) {
		return
	}
	s.next.Error(err, msg, keysAndValues...)
}

// WithValues returns a sink whose module level reflects keysAndValues
func (s *Sink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	ns := *s
	ns.next = s.next.WithValues(keysAndValues...)
	if len(s.settings.filters) == 0 {
		return &ns
	}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || key != s.settings.moduleKey {
			continue
		}
		module, ok := keysAndValues[i+1].(string)
		if !ok {
			continue
		}
		if level, ok := s.settings.filters[module]; ok {
			ns.minLevel = level
		} else {
			ns.minLevel = s.settings.defaultLevel
		}
	}
	return &ns
}

// WithName passes the name on; names do not select a module
func (s *Sink) WithName(name string) logr.LogSink {
	ns := *s
	ns.next = s.next.WithName(name)
	return &ns
}

// WithCallDepth passes extra call depth on when the wrapped sink supports it
func (s *Sink) WithCallDepth(depth int) logr.LogSink {
	cd, ok := s.next.(logr.CallDepthLogSink)
	if !ok {
		return s
	}
	ns := *s
	ns.next = cd.WithCallDepth(depth)
	return &ns
}

// LevelFromVerbosity maps a logr V-level to a log level
func LevelFromVerbosity(v int) log.Level {
	switch {
	case v <= InfoVerbosity:
		return log.LevelInfo
	case v == DebugVerbosity:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}
