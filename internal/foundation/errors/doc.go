// Package errors classifies chloroplast failures.
//
// Every error a command returns is expected to be a ClassifiedError. Its
// ErrorCategory picks the exit code and the dev server status, its
// ErrorSeverity picks the log level, and its Recovery tells the user whether
// a rebuild can fix it. Per-file failures (parse, render, filesystem) are
// recorded in the build's error report. Everything else stops the command.
//
//	err := errors.ParseError("invalid front matter").
//		WithContext("path", node.Source.Path()).
//		WithCause(yamlErr).
//		Build()
package errors
