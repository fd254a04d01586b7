// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the Logger type. A logger owns a drain and a
//              layer of context values; With creates child loggers that
//              share the drain and add a context layer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-17 v0.2.0: Drain based logger tree, level gating moved to drains

package log

import (
	"fmt"
	"os"
)

// Logger emits records into a drain. Loggers are immutable; With returns
// a child. A Logger is safe for concurrent use when its drain is.
type Logger struct {
	sink    func(rec *Record, values *Values) error
	values  *Values
	onError func(err error)
}

// New creates a root logger writing into drain with the given context
func New[T any](drain Drain[T], fields ...Field) *Logger {
	return &Logger{
		sink: func(rec *Record, values *Values) error {
			_, err := drain.Log(rec, values)
			return err
		},
		values:  NewValues(nil, fields...),
		onError: stderrHandler,
	}
}

// With returns a child logger whose context has fields as its most
// specific layer
func (l *Logger) With(fields ...Field) *Logger {
	clone := l.clone()
	clone.values = NewValues(l.values, fields...)
	return clone
}

// WithModule is shorthand for With(Module(name))
func (l *Logger) WithModule(name string) *Logger {
	return l.With(Module(name))
}

// WithErrorHandler sets the function drain failures are reported to. A
// nil handler discards them.
func (l *Logger) WithErrorHandler(handler func(err error)) *Logger {
	clone := l.clone()
	clone.onError = handler
	return clone
}

// Values returns the logger's context
func (l *Logger) Values() *Values {
	return l.values
}

// Trace logs a trace level message
func (l *Logger) Trace(message string, fields ...Field) {
	l.Log(LevelTrace, message, fields...)
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Field) {
	l.Log(LevelDebug, message, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Field) {
	l.Log(LevelInfo, message, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Field) {
	l.Log(LevelWarning, message, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Field) {
	l.Log(LevelError, message, fields...)
}

// Critical logs a critical level message. Unlike the old Fatal it does
// not exit the process.
func (l *Logger) Critical(message string, fields ...Field) {
	l.Log(LevelCritical, message, fields...)
}

// Log builds a record and hands it to the drain
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if err := l.sink(NewRecord(level, message, fields...), l.values); err != nil && l.onError != nil {
		l.onError(err)
	}
}

func (l *Logger) clone() *Logger {
	return &Logger{
		sink:    l.sink,
		values:  l.values,
		onError: l.onError,
	}
}

func stderrHandler(err error) {
	fmt.Fprintf(os.Stderr, "log: drain failed: %v\n", err)
}
