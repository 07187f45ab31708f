// Package log provides slog loggers that mask sensitive attribute values.
//
// RedactHandler wraps any slog.Handler. Attributes whose key is in the
// redact set, or whose string value embeds URL credentials or a bearer
// token, are replaced with MaskValue before reaching the wrapped handler.
// Link targets in table documents may carry such credentials, so every
// logger built here redacts by default.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, cfg.RedactKeys...)
//	slog.SetDefault(logger)
package log
