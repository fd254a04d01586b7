// File: format.go
// Title: Log Format Definitions
// Description: Defines output formats for records including JSON, text,
//              console and logfmt. Formatters render a record together with
//              its logger context.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with multiple output formats
// - 2026-10-17 v0.2.0: Render Values layers, lipgloss console styling

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Format represents the output format for log records
type Format int

const (
	// FormatJSON outputs structured JSON logs (recommended for production)
	FormatJSON Format = iota

	// FormatText outputs human-readable text logs
	FormatText

	// FormatConsole outputs colored console logs for development
	FormatConsole

	// FormatLogfmt outputs logfmt structured logs (key=value pairs)
	FormatLogfmt
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	case FormatLogfmt:
		return "logfmt"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	case "logfmt":
		return FormatLogfmt, nil
	default:
		return FormatJSON, &ParseError{
			Input: format,
			Type:  "format",
		}
	}
}

// Formatter renders a record and its context
type Formatter interface {
	Format(rec *Record, values *Values) ([]byte, error)
}

// allFields returns context fields followed by call-site fields
func allFields(rec *Record, values *Values) []Field {
	out := values.Fields()
	return append(out, rec.Fields...)
}

func fieldValue(v interface{}) interface{} {
	switch val := v.(type) {
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	default:
		return v
	}
}

// JSONFormatter formats records as JSON objects
type JSONFormatter struct {
	// PrettyPrint enables indented JSON output
	PrettyPrint bool

	// TimestampFormat specifies the timestamp format
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		PrettyPrint:     false,
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a record as a JSON line
func (f *JSONFormatter) Format(rec *Record, values *Values) ([]byte, error) {
	data := make(map[string]interface{})

	// Later fields overwrite earlier ones, standard keys win
	for _, field := range allFields(rec, values) {
		data[field.Key] = fieldValue(field.Value)
	}

	data["timestamp"] = rec.Time.Format(f.TimestampFormat)
	data["level"] = rec.Level.String()
	data["message"] = rec.Message

	var out []byte
	var err error
	if f.PrettyPrint {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter formats records as human-readable text
type TextFormatter struct {
	// TimestampFormat specifies the timestamp format
	TimestampFormat string

	// DisableTimestamp disables timestamp output
	DisableTimestamp bool
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat:  "15:04:05",
		DisableTimestamp: false,
	}
}

// Format formats a record as one line of text
func (f *TextFormatter) Format(rec *Record, values *Values) ([]byte, error) {
	return []byte(f.line(rec, values, fmt.Sprintf("[%s]", rec.Level.ShortString())) + "\n"), nil
}

func (f *TextFormatter) line(rec *Record, values *Values, level string) string {
	var parts []string

	if !f.DisableTimestamp {
		parts = append(parts, rec.Time.Format(f.TimestampFormat))
	}
	parts = append(parts, level)
	parts = append(parts, rec.Message)

	fields := allFields(rec, values)
	if len(fields) > 0 {
		fieldParts := make([]string, 0, len(fields))
		for _, field := range fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", field.Key, fieldValue(field.Value)))
		}
		parts = append(parts, fmt.Sprintf("[%s]", strings.Join(fieldParts, " ")))
	}

	return strings.Join(parts, " ")
}

// ConsoleFormatter formats records for a terminal with a colored level
type ConsoleFormatter struct {
	// DisableColors disables color output
	DisableColors bool

	*TextFormatter
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{
		DisableColors: false,
		TextFormatter: NewTextFormatter(),
	}
}

// Format formats a record for console output
func (f *ConsoleFormatter) Format(rec *Record, values *Values) ([]byte, error) {
	level := fmt.Sprintf("[%s]", rec.Level.ShortString())
	if !f.DisableColors {
		level = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(rec.Level.Color())).
			Render(level)
	}
	return []byte(f.line(rec, values, level) + "\n"), nil
}

// LogfmtFormatter formats records in logfmt format (key=value pairs)
type LogfmtFormatter struct {
	// TimestampFormat specifies the timestamp format
	TimestampFormat string
}

// NewLogfmtFormatter creates a new logfmt formatter
func NewLogfmtFormatter() *LogfmtFormatter {
	return &LogfmtFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a record in logfmt format
func (f *LogfmtFormatter) Format(rec *Record, values *Values) ([]byte, error) {
	var parts []string

	parts = append(parts, fmt.Sprintf("timestamp=%s", rec.Time.Format(f.TimestampFormat)))
	parts = append(parts, fmt.Sprintf("level=%s", rec.Level.String()))
	parts = append(parts, fmt.Sprintf("message=%q", rec.Message))

	for _, field := range allFields(rec, values) {
		switch v := fieldValue(field.Value).(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%q", field.Key, v))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", field.Key, v))
		}
	}

	return []byte(strings.Join(parts, " ") + "\n"), nil
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatText:
		return NewTextFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	case FormatLogfmt:
		return NewLogfmtFormatter()
	default:
		return NewJSONFormatter()
	}
}
