// File: record.go
// Title: Log Record Structure
// Description: Defines the record passed to drains and the typed field
//              constructors used at call sites and when enriching loggers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation as Entry
// - 2026-10-17 v0.2.0: Record with ordered fields, context moved to Values

package log

import (
	"time"
)

// Record is a single log event. Drains read it and must not retain it
// after Log returns.
type Record struct {
	Time    time.Time
	Level   Level
	Message string

	// Fields attached at the call site. Logger context lives in Values.
	Fields []Field
}

// NewRecord creates a record stamped with the current time
func NewRecord(level Level, message string, fields ...Field) *Record {
	return &Record{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Fields:  fields,
	}
}

// Serialize emits the call-site fields in order
func (r *Record) Serialize(s Serializer) error {
	for _, f := range r.Fields {
		if err := f.emit(s); err != nil {
			return err
		}
	}
	return nil
}

// Field is a single key-value pair
type Field struct {
	Key   string
	Value interface{}
}

// emit dispatches on the value kind. Only string values reach EmitString.
func (f Field) emit(s Serializer) error {
	if str, ok := f.Value.(string); ok {
		return s.EmitString(f.Key, str)
	}
	return s.EmitAny(f.Key, f.Value)
}

// String creates a string field
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time creates a time field
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field under the "error" key
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value type
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Module creates the conventional module field
func Module(name string) Field {
	return Field{Key: ModuleKey, Value: name}
}

// ModuleKey is the key conventionally used to tag a logger with its module
const ModuleKey = "module"
