package anonymity

import (
	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

// AverageKAnonymity averages a sweep the way the published reports do.
//
// Only the leading run of scores with k > 1 is considered. Each score is
// weighted by its zero-based position and the result is the integer
// quotient sum(i*k) / sum(i). When the weights sum to zero (no score, or
// only the first score qualifies) the average is undefined and ok is false.
func AverageKAnonymity(scores []model.LengthScore) (avg int, ok bool) {
	var weighted, weights int
	for i, s := range scores {
		if s.KAnonymity <= 1 {
			break
		}
		weighted += i * s.KAnonymity
		weights += i
	}
	if weights == 0 {
		return 0, false
	}
	return weighted / weights, true
}

// Entries flattens per-length digest scores into sweep rows. scores[i]
// holds the registry-ordered scores for truncation length i+1.
func Entries(scores [][]model.DigestScore) []model.AnonymityEntry {
	var entries []model.AnonymityEntry
	for i, row := range scores {
		for _, s := range row {
			entries = append(entries, model.NewAnonymityEntry(i+1, s.Digest, s.KAnonymity))
		}
	}
	return entries
}

// BestPerLength returns, for every truncation length present in entries,
// the first entry with the highest k-anonymity in registry order.
func BestPerLength(entries []model.AnonymityEntry) []model.AnonymityEntry {
	var out []model.AnonymityEntry
	index := make(map[int]int)
	for _, e := range entries {
		i, seen := index[e.FirstBits]
		if !seen {
			index[e.FirstBits] = len(out)
			out = append(out, e)
			continue
		}
		if e.KAnonymity > out[i].KAnonymity {
			out[i] = e
		}
	}
	return out
}

// MaxSweepLength returns the largest truncation length every registry
// digest can serve.
func MaxSweepLength() int {
	limit := 0
	for _, a := range digest.Algorithms() {
		if l := a.HexLen(); limit == 0 || l < limit {
			limit = l
		}
	}
	return limit
}
