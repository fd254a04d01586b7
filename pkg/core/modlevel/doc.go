// Package modlevel filters log records by a minimum level chosen per
// module, in the spirit of vmodule settings.
//
// Package: modlevel
// Title: Per-Module Level Filtering
// Description: A Filter wraps any log.Drain. For each record it looks up
//              the module named in the logger context, picks that module's
//              level from a ModLevelMap (or the default level) and either
//              drops the record or forwards it unchanged.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation
//
// Configuration strings are comma-separated MODULE=LEVEL pairs:
//
//	db=debug,http=warn,cache=trace
//
// Level tokens are case-insensitive (trace, debug, info, warn, warning,
// err, error, crit, critical). Entries that cannot be parsed are skipped,
// so a typo costs one override and never the process.
//
// Usage:
//
//	out := log.NewWriterDrain(os.Stderr, log.NewTextFormatter())
//	filter := modlevel.New[int](out, log.ModuleKey, log.LevelWarning,
//		modlevel.Parse(os.Getenv("VMODULE")))
//	root := log.New[modlevel.Result[int]](filter)
//	root.WithModule("db").Debug("visible when VMODULE has db=debug")
//
// Filter.Log reports Result.Forwarded=false for dropped records, so a
// caller can tell a suppressed record from one the drain accepted or
// rejected. A Filter is itself a drain and can be nested.
package modlevel
