// File: config.go
// Title: Module Level Configuration Parser
// Description: Parses MODULE=LEVEL[,MODULE=LEVEL]* strings into a module
//              level map. Parsing never fails; malformed entries are
//              skipped.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package modlevel

import (
	"sort"
	"strings"

	"github.com/msto63/modlevel/pkg/core/log"
)

// ModLevelMap maps a module name to the minimum level its records need
type ModLevelMap map[string]log.Level

// Config is a comma-separated list of MODULE=LEVEL pairs
type Config string

// Map parses the configuration. See Parse.
func (c Config) Map() ModLevelMap {
	return Parse(string(c))
}

// Parse converts a MODULE=LEVEL[,MODULE=LEVEL]* string into a map.
//
// Each entry is split on its first '='. Entries without '=', with an empty
// side or with an unknown level token are skipped. Module names are kept
// verbatim; level tokens are case-insensitive. A module listed twice keeps
// its last level.
func Parse(config string) ModLevelMap {
	m := make(ModLevelMap)
	for _, entry := range strings.Split(config, ",") {
		module, token, ok := strings.Cut(entry, "=")
		if !ok || module == "" || token == "" {
			continue
		}
		level, ok := LevelFromToken(token)
		if !ok {
			continue
		}
		m[module] = level
	}
	return m
}

// LevelFromToken resolves a vmodule level token
func LevelFromToken(token string) (log.Level, bool) {
	switch strings.ToUpper(token) {
	case "TRACE":
		return log.LevelTrace, true
	case "DEBUG":
		return log.LevelDebug, true
	case "INFO":
		return log.LevelInfo, true
	case "WARN", "WARNING":
		return log.LevelWarning, true
	case "ERR", "ERROR":
		return log.LevelError, true
	case "CRIT", "CRITICAL":
		return log.LevelCritical, true
	default:
		return 0, false
	}
}

// String renders the map in configuration form with modules sorted
func (m ModLevelMap) String() string {
	modules := make([]string, 0, len(m))
	for module := range m {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	var b strings.Builder
	for i, module := range modules {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(module)
		b.WriteByte('=')
		b.WriteString(m[module].String())
	}
	return b.String()
}

// Clone returns a copy of the map
func (m ModLevelMap) Clone() ModLevelMap {
	out := make(ModLevelMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
