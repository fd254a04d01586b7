// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     logging
// Description: Factory functions for loggers with module level filtering
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name, added as "service" to every record when set
	ServiceName string

	// Default level for modules without an entry (trace ... critical)
	Level string

	// Module levels as MODULE=LEVEL[,MODULE=LEVEL]*
	VModule string

	// Context key naming the module (default: "module")
	ModuleKey string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Output writer (default: os.Stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		ModuleKey:   log.ModuleKey,
		Format:      "json",
	}
}

// NewLogger creates a logger whose records pass a module level filter.
// Invalid levels and formats fall back to info and json.
func NewLogger(cfg LoggerConfig) *log.Logger {
	level, _ := log.ParseLevel(cfg.Level)

	format, err := log.ParseFormat(cfg.Format)
	if err != nil {
		format = log.FormatJSON
	}

	moduleKey := cfg.ModuleKey
	if moduleKey == "" {
		moduleKey = log.ModuleKey
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	drain := log.NewWriterDrain(output, log.GetFormatter(format))
	filter := modlevel.New[int](drain, moduleKey, level, modlevel.Parse(cfg.VModule))

	var fields []log.Field
	if cfg.ServiceName != "" {
		fields = append(fields, log.String("service", cfg.ServiceName))
	}
	return log.New[modlevel.Result[int]](filter, fields...)
}

// NewSimpleLogger creates a logger for a service with standard configuration
func NewSimpleLogger(serviceName string) *log.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// Logger adapts log.Logger to key-value call sites
type Logger struct {
	*log.Logger
	name string
}

// New creates a key-value logger for a service
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing logger
func Wrap(name string, logger *log.Logger) *Logger {
	return &Logger{Logger: logger, name: name}
}

// Name returns the service name the logger was created for
func (l *Logger) Name() string {
	return l.name
}

// WithModule returns a child logger for module
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{Logger: l.Logger.WithModule(module), name: l.name}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...)...)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...)...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...)...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...)...)
}

// toFields converts key-value pairs to fields. Pairs with a non-string key
// and a trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) []log.Field {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make([]log.Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, log.Any(key, keysAndValues[i+1]))
	}
	return fields
}
