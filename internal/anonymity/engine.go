package anonymity

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

// BucketMap maps a truncated digest prefix to the number of passwords that
// produce it. Only populated buckets are present.
type BucketMap map[string]int

// Total returns the number of passwords counted in the map.
func (m BucketMap) Total() int {
	return lo.Sum(lo.Values(m))
}

// Prefixes returns the bucket keys in lexical order.
func (m BucketMap) Prefixes() []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// SizeDistribution returns how many buckets have each size.
func (m BucketMap) SizeDistribution() map[int]int {
	dist := make(map[int]int)
	for _, count := range m {
		dist[count]++
	}
	return dist
}

// ValidateTruncation checks that n can be served by algorithm a.
func ValidateTruncation(a digest.Algorithm, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTruncation, n)
	}
	if !a.Valid() {
		return fmt.Errorf("%w: %d", digest.ErrUnsupportedAlgorithm, int(a))
	}
	if hexLen := a.HexLen(); n > hexLen {
		return fmt.Errorf("%w: %d > %d hex characters of %s", ErrTruncationOutOfRange, n, hexLen, a)
	}
	return nil
}

// Bucket hashes every password with a and counts passwords per prefix of
// n hex characters. An empty corpus yields an empty map.
func Bucket(a digest.Algorithm, n int, passwords []string) (BucketMap, error) {
	return bucketContext(context.Background(), a, n, passwords)
}

// cancelCheckInterval is how many passwords are hashed between
// cancellation checks.
const cancelCheckInterval = 4096

// bucketContext is Bucket with periodic cancellation checks, so long
// corpora stop promptly on interrupt.
func bucketContext(ctx context.Context, a digest.Algorithm, n int, passwords []string) (BucketMap, error) {
	if err := ValidateTruncation(a, n); err != nil {
		return nil, err
	}

	buckets := make(BucketMap)
	for i, password := range passwords {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h, err := digest.Hash(a, password)
		if err != nil {
			return nil, err
		}
		buckets[h[:n]]++
	}
	return buckets, nil
}

// KAnonymity returns the smallest bucket count, or 0 for an empty map.
func KAnonymity(buckets BucketMap) int {
	return lo.Min(lo.Values(buckets))
}

// Evaluate combines Bucket and KAnonymity for one digest and length.
func Evaluate(a digest.Algorithm, n int, passwords []string) (int, error) {
	buckets, err := Bucket(a, n, passwords)
	if err != nil {
		return 0, err
	}
	return KAnonymity(buckets), nil
}

// CompareDigests evaluates every registry algorithm at length n and
// returns the scores in registry order.
func CompareDigests(n int, passwords []string) ([]model.DigestScore, error) {
	algorithms := digest.Algorithms()
	scores := make([]model.DigestScore, 0, len(algorithms))
	for _, a := range algorithms {
		k, err := Evaluate(a, n, passwords)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", a, err)
		}
		scores = append(scores, model.DigestScore{Digest: a, KAnonymity: k})
	}
	return scores, nil
}

// BestDigest returns the algorithm with the highest k-anonymity at
// length n. Ties go to the algorithm that comes first in registry order.
func BestDigest(n int, passwords []string) (model.DigestScore, error) {
	scores, err := CompareDigests(n, passwords)
	if err != nil {
		return model.DigestScore{}, err
	}
	best, _ := SelectBest(scores)
	return best, nil
}

// SelectBest returns the first score with the maximal k-anonymity.
// It reports false for an empty slice.
func SelectBest(scores []model.DigestScore) (model.DigestScore, bool) {
	if len(scores) == 0 {
		return model.DigestScore{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		// Strictly greater keeps the earliest maximum.
		if s.KAnonymity > best.KAnonymity {
			best = s
		}
	}
	return best, true
}

// SweepLengths evaluates a at every truncation length from 1 to
// maxLength. The scores are usually non-increasing, but callers must not
// depend on it.
func SweepLengths(a digest.Algorithm, passwords []string, maxLength int) ([]model.LengthScore, error) {
	scores := make([]model.LengthScore, 0, max(maxLength, 0))
	for n := 1; n <= maxLength; n++ {
		k, err := Evaluate(a, n, passwords)
		if err != nil {
			return nil, err
		}
		scores = append(scores, model.LengthScore{FirstBits: n, KAnonymity: k})
	}
	return scores, nil
}
