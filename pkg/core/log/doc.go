// Package log provides the record, context and drain contracts used by the
// modlevel filters, plus a small logger tree and formatting drains.
//
// Package: log
// Title: Structured Logging Contracts
// Description: Records carry a level, a message and call-site fields.
//              Loggers carry layered context (Values) that grows with every
//              With call. Drains receive both and decide what to do with
//              them: write them (WriterDrain), drop them (Discard) or
//              forward them after a decision (modlevel.Filter).
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-17 v0.2.0: Drain contract, layered Values, six-level scale
//
// Usage:
//
//	out := log.NewWriterDrain(os.Stdout, log.NewTextFormatter())
//	root := log.New[int](out, log.String("service", "ingest"))
//	db := root.WithModule("db")
//	db.Debug("query planned", log.Int("rows", 42))
//
// Levels are ordered Trace < Debug < Info < Warning < Error < Critical.
// The logger itself never filters; wrap the drain in a modlevel.Filter
// for that.
package log
