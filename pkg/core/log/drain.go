// File: drain.go
// Title: Drain Contract
// Description: Defines the destination contract records are written to.
//              Decorators such as filters implement the same contract so
//              they can be nested.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package log

// Drain consumes records together with the logger context they were
// emitted under. T is whatever the drain reports on success.
//
// A drain shared by several loggers is called concurrently and must be
// safe for that.
type Drain[T any] interface {
	Log(rec *Record, values *Values) (T, error)
}

// DrainFunc adapts a function to the Drain interface
type DrainFunc[T any] func(rec *Record, values *Values) (T, error)

// Log calls f(rec, values)
func (f DrainFunc[T]) Log(rec *Record, values *Values) (T, error) {
	return f(rec, values)
}

// Discard is a drain that accepts and drops every record
var Discard Drain[struct{}] = DrainFunc[struct{}](func(*Record, *Values) (struct{}, error) {
	return struct{}{}, nil
})
