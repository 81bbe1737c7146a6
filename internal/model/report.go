package model

import (
	"time"

	"github.com/nao1215/passprivacy/internal/digest"
)

// DigestScore is the k-anonymity achieved by one digest at one truncation length.
type DigestScore struct {
	// Digest is the evaluated algorithm.
	Digest digest.Algorithm `json:"digest"`

	// KAnonymity is the size of the smallest bucket.
	KAnonymity int `json:"k_anonymity_achieved"`
}

// LengthScore is the k-anonymity achieved at one truncation length.
type LengthScore struct {
	// FirstBits is the truncation length in hex characters.
	// The name is kept for compatibility with the CSV format; each
	// character carries four bits.
	FirstBits int `json:"first_bits"`

	// KAnonymity is the size of the smallest bucket.
	KAnonymity int `json:"k_anonymity_achieved"`
}

// AnonymityEntry is one row of the digest × truncation length sweep.
type AnonymityEntry struct {
	FirstBits       int              `json:"first_bits"`
	Digest          digest.Algorithm `json:"digest"`
	KAnonymity      int              `json:"k_anonymity_achieved"`
	AnonymityImpact int              `json:"anonymity_impact"`
}

// NewAnonymityEntry builds an entry and derives its impact heuristic,
// (firstBits - 1) * k.
func NewAnonymityEntry(firstBits int, d digest.Algorithm, k int) AnonymityEntry {
	return AnonymityEntry{
		FirstBits:       firstBits,
		Digest:          d,
		KAnonymity:      k,
		AnonymityImpact: (firstBits - 1) * k,
	}
}

// Report is the result of one analysis run.
//
// Design decision: We use a single struct with mode-specific optional
// sections rather than one type per mode. Writers and the history store
// then handle every mode through the same value, and JSON output omits
// the sections that do not apply.
type Report struct {
	// ID is the history store identifier. Empty until the report is saved.
	ID string `json:"id,omitempty"`

	// Mode is the analysis that produced this report.
	Mode Mode `json:"mode"`

	// Dataset is the path of the password corpus.
	Dataset string `json:"dataset"`

	// PasswordCount is the number of passwords analysed.
	PasswordCount int `json:"password_count"`

	// CreatedAt is when the analysis ran.
	CreatedAt time.Time `json:"created_at"`

	// FirstBits is the truncation length for single and compare modes.
	FirstBits int `json:"first_bits,omitempty"`

	// MaxFirstBits is the largest truncation length for sweep and matrix modes.
	MaxFirstBits int `json:"max_first_bits,omitempty"`

	// Digest is the selected algorithm for single and sweep modes.
	Digest digest.Algorithm `json:"digest,omitempty"`

	// KAnonymity is the achieved k-anonymity in single mode.
	KAnonymity int `json:"k_anonymity_achieved"`

	// Buckets is the bucket map of single mode, populated only in debug mode.
	Buckets map[string]int `json:"buckets,omitempty"`

	// Digests holds the per-digest results of compare mode in registry order.
	Digests []DigestScore `json:"digests,omitempty"`

	// Best is the selected digest of compare mode.
	Best *DigestScore `json:"best,omitempty"`

	// Lengths holds the per-length results of sweep mode.
	Lengths []LengthScore `json:"lengths,omitempty"`

	// Average is the averaged k-anonymity of sweep mode. Nil when no
	// truncation length qualified for averaging.
	Average *int `json:"average_k_anonymity,omitempty"`

	// Entries holds the matrix mode rows ordered by length then registry order.
	Entries []AnonymityEntry `json:"entries,omitempty"`
}

// NewReport creates a Report for the given mode and dataset stamped with
// the current time.
func NewReport(mode Mode, dataset string, passwordCount int) *Report {
	return &Report{
		Mode:          mode,
		Dataset:       dataset,
		PasswordCount: passwordCount,
		CreatedAt:     time.Now(),
	}
}

// HasAverage reports whether an average was defined for a sweep.
func (r *Report) HasAverage() bool {
	return r.Average != nil
}

// Summary returns the headline k-anonymity of the report: the achieved
// value in single mode, the best value in compare mode, the average in
// sweep mode and the maximum entry in matrix mode.
func (r *Report) Summary() int {
	switch r.Mode {
	case ModeSingle:
		return r.KAnonymity
	case ModeCompare:
		if r.Best != nil {
			return r.Best.KAnonymity
		}
	case ModeSweep:
		if r.Average != nil {
			return *r.Average
		}
	case ModeMatrix:
		maxK := 0
		for _, e := range r.Entries {
			if e.KAnonymity > maxK {
				maxK = e.KAnonymity
			}
		}
		return maxK
	}
	return 0
}
