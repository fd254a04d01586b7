// File: level.go
// Title: Log Level Definitions
// Description: Defines the ordered severity levels used to filter records.
//              The total order on Level is the only semantic the filters
//              rely on.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-17 v0.2.0: Six-level scale (trace..critical), IsAtLeast

package log

import (
	"strings"
)

// Level represents the severity of a log record
type Level int

const (
	// LevelTrace is the most verbose level, used for very detailed debugging
	LevelTrace Level = iota

	// LevelDebug provides detailed information for debugging purposes
	LevelDebug

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarning indicates potentially harmful situations
	LevelWarning

	// LevelError represents error conditions that need attention
	LevelError

	// LevelCritical represents failures the process may not survive
	LevelCritical
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShortString returns a three letter representation of the log level
func (l Level) ShortString() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarning:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelCritical:
		return "CRT"
	default:
		return "???"
	}
}

// Color returns the terminal color for the level (ANSI 16 color index)
func (l Level) Color() string {
	switch l {
	case LevelTrace:
		return "7" // White
	case LevelDebug:
		return "6" // Cyan
	case LevelInfo:
		return "2" // Green
	case LevelWarning:
		return "3" // Yellow
	case LevelError:
		return "1" // Red
	case LevelCritical:
		return "5" // Magenta
	default:
		return "8"
	}
}

// IsAtLeast reports whether l is at least as severe as min
func (l Level) IsAtLeast(min Level) bool {
	return l >= min
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelCritical
}

// ParseLevel parses a string into a log level.
//
// It accepts the level names plus the usual abbreviations found in
// configuration files and log streams. Unlike the vmodule token table it
// reports unknown input as a *ParseError.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "trc":
		return LevelTrace, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf", "information":
		return LevelInfo, nil
	case "warn", "wrn", "warning":
		return LevelWarning, nil
	case "error", "err":
		return LevelError, nil
	case "critical", "crit", "crt", "fatal", "ftl", "panic":
		return LevelCritical, nil
	default:
		return LevelInfo, &ParseError{
			Input: level,
			Type:  "level",
		}
	}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// AllLevels returns all levels from least to most severe
func AllLevels() []Level {
	return []Level{
		LevelTrace,
		LevelDebug,
		LevelInfo,
		LevelWarning,
		LevelError,
		LevelCritical,
	}
}

// DefaultLevel returns the default log level for production
func DefaultLevel() Level {
	return LevelInfo
}
