// Package error provides the structured error type used by modlevel's
// configuration and ingest code.
//
// Package: error
// Title: Structured Errors
// Description: Errors carry a Code, the operation that failed and a set of
//              details. They wrap their cause, so errors.Is and errors.As
//              keep working across layers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Usage:
//
//	import mdwerror "github.com/msto63/modlevel/pkg/core/error"
//
//	return mdwerror.Wrap(err, "failed to read settings").
//		WithCode(mdwerror.CodeConfigError).
//		WithOperation("config.Load").
//		WithDetail("path", path)
//
// The filters themselves never produce these errors: they return drain
// errors unchanged.
package error
