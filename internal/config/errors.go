package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrNoSource is returned when no document is given.
	ErrNoSource = errors.New("no source specified: provide at least one document")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be one of html, csv, markdown, text, json")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidDelimiter is returned when the delimiter is not a single
	// character usable as a CSV separator.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than a quote or line break")

	// ErrNoDBDir is returned when saving is requested without a database directory.
	ErrNoDBDir = errors.New("no database directory: set --db-dir to save renders")
)
