package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDataset is returned when no password file is specified.
	ErrNoDataset = errors.New("no dataset specified: use --path-to-file")

	// ErrInvalidFirstBits is returned when the truncation length is outside
	// 1..max-first-bits.
	ErrInvalidFirstBits = errors.New("invalid first bits: must be between 1 and max-first-bits")

	// ErrInvalidMaxFirstBits is returned when the sweep limit is not positive
	// or exceeds the shortest digest.
	ErrInvalidMaxFirstBits = errors.New("invalid max first bits: must be between 1 and the shortest digest length")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownReportFormat is returned when the configuration file names
	// a format other than text, json or markdown.
	ErrUnknownReportFormat = errors.New("unknown report format: use text, json or markdown")

	// ErrUnknownLanguage is returned when the configuration file names a
	// report language that is not a valid BCP 47 tag.
	ErrUnknownLanguage = errors.New("unknown report language: use a BCP 47 tag such as en or de")

	// ErrInvalidLogSize is returned when the log rotation size is negative.
	ErrInvalidLogSize = errors.New("invalid log size: must be non-negative")
)
