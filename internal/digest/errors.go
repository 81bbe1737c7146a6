package digest

import "errors"

// ErrUnsupportedAlgorithm is returned when an identifier is outside the
// registry.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
