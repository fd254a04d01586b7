// File: filter.go
// Title: Module Level Filter
// Description: Drain decorator that drops records below a level chosen per
//              module. The module is read from the logger context under a
//              configurable key; modules without an entry use the default.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package modlevel

import (
	"github.com/msto63/modlevel/pkg/core/log"
)

// Result is what a Filter reports for one record. Forwarded is false when
// the record was dropped; Value is then the zero value.
type Result[T any] struct {
	Value     T
	Forwarded bool
}

// Filter forwards records that meet the level of their module and drops
// the rest. It is immutable after New.
type Filter[T any] struct {
	drain        log.Drain[T]
	moduleKey    string
	defaultLevel log.Level
	filters      ModLevelMap
}

// New wraps drain. Records whose context carries a string value under
// moduleKey that is listed in filters must reach that level; all others
// must reach defaultLevel.
//
// filters is copied. The filter adds no locking of its own, so drain must
// be safe for concurrent use if the filter is.
func New[T any](drain log.Drain[T], moduleKey string, defaultLevel log.Level, filters ModLevelMap) *Filter[T] {
	return &Filter[T]{
		drain:        drain,
		moduleKey:    moduleKey,
		defaultLevel: defaultLevel,
		filters:      filters.Clone(),
	}
}

// Log drops rec or forwards it with values to the wrapped drain. Errors
// from the drain are returned unchanged.
func (f *Filter[T]) Log(rec *log.Record, values *log.Values) (Result[T], error) {
	if !rec.Level.IsAtLeast(f.LevelFor(values)) {
		return Result[T]{}, nil
	}
	v, err := f.drain.Log(rec, values)
	return Result[T]{Value: v, Forwarded: true}, err
}

// LevelFor returns the minimum level a record logged under values needs
func (f *Filter[T]) LevelFor(values *log.Values) log.Level {
	// Without module entries this is a plain level filter
	if len(f.filters) == 0 {
		return f.defaultLevel
	}

	ser := moduleSerializer{key: f.moduleKey}
	_ = values.Serialize(nil, &ser)
	if !ser.found {
		return f.defaultLevel
	}
	if level, ok := f.filters[ser.module]; ok {
		return level
	}
	return f.defaultLevel
}

// ModuleKey returns the context key modules are read from
func (f *Filter[T]) ModuleKey() string {
	return f.moduleKey
}

// DefaultLevel returns the level used for untracked modules
func (f *Filter[T]) DefaultLevel() log.Level {
	return f.defaultLevel
}

// Modules returns a copy of the module level map
func (f *Filter[T]) Modules() ModLevelMap {
	return f.filters.Clone()
}

// moduleSerializer keeps the last string emitted under key
type moduleSerializer struct {
	key    string
	module string
	found  bool
}

func (s *moduleSerializer) EmitString(key, val string) error {
	if key == s.key {
		s.module = val
		s.found = true
	}
	return nil
}

func (s *moduleSerializer) EmitAny(string, interface{}) error {
	return nil
}
