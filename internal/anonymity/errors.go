package anonymity

import "errors"

// Truncation errors. Both are programmer errors and are never retried.
var (
	// ErrInvalidTruncation is returned when the truncation length is below 1.
	ErrInvalidTruncation = errors.New("invalid truncation length: must be at least 1")

	// ErrTruncationOutOfRange is returned when the truncation length exceeds
	// the hex length of the selected digest.
	ErrTruncationOutOfRange = errors.New("truncation length exceeds digest length")
)
