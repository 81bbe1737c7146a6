package model

import (
	"errors"
	"fmt"
	"strings"
)

// Mode identifies which analysis produced a Report.
// The mode is chosen by the driver from the parameters the user supplied.
type Mode int

const (
	// ModeSingle evaluates one digest at one truncation length.
	ModeSingle Mode = iota

	// ModeCompare evaluates every digest at one truncation length and
	// selects the best one.
	ModeCompare

	// ModeSweep evaluates one digest at every truncation length from 1 to
	// the configured maximum and averages the results.
	ModeSweep

	// ModeMatrix evaluates every digest at every truncation length and
	// produces the sweep CSV.
	ModeMatrix
)

// ErrUnknownMode is returned when a mode name cannot be parsed.
var ErrUnknownMode = errors.New("unknown analysis mode")

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeCompare:
		return "compare"
	case ModeSweep:
		return "sweep"
	case ModeMatrix:
		return "matrix"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ModeSingle, nil
	case "compare":
		return ModeCompare, nil
	case "sweep":
		return ModeSweep, nil
	case "matrix":
		return ModeMatrix, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
