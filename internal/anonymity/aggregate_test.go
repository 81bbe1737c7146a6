package anonymity

import (
	"testing"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

func lengthScores(ks ...int) []model.LengthScore {
	out := make([]model.LengthScore, len(ks))
	for i, k := range ks {
		out[i] = model.LengthScore{FirstBits: i + 1, KAnonymity: k}
	}
	return out
}

// TestAverageKAnonymity tests the weighted average and its guard.
func TestAverageKAnonymity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []model.LengthScore
		want   int
		wantOK bool
	}{
		{name: "no scores", scores: nil, want: 0, wantOK: false},
		{name: "first length already at one", scores: lengthScores(1, 1, 1), want: 0, wantOK: false},
		{name: "only first length qualifies", scores: lengthScores(40, 1, 1), want: 0, wantOK: false},
		// (1*10 + 2*4) / (1+2) = 6
		{name: "leading run", scores: lengthScores(50, 10, 4, 1, 3), want: 6, wantOK: true},
		// 1*3 / 1 = 3, later values after a k<=1 are ignored
		{name: "stops at first non-qualifying", scores: lengthScores(9, 3, 0, 100), want: 3, wantOK: true},
		// (1*7 + 2*7) / 3 = 7
		{name: "integer division", scores: lengthScores(8, 7, 7), want: 7, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := AverageKAnonymity(tt.scores)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AverageKAnonymity() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestEntries tests flattening and the impact heuristic.
func TestEntries(t *testing.T) {
	t.Parallel()

	rows := [][]model.DigestScore{
		{{Digest: digest.SHA1, KAnonymity: 30}, {Digest: digest.SHA256, KAnonymity: 28}},
		{{Digest: digest.SHA1, KAnonymity: 2}, {Digest: digest.SHA256, KAnonymity: 3}},
	}

	entries := Entries(rows)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	want := []model.AnonymityEntry{
		{FirstBits: 1, Digest: digest.SHA1, KAnonymity: 30, AnonymityImpact: 0},
		{FirstBits: 1, Digest: digest.SHA256, KAnonymity: 28, AnonymityImpact: 0},
		{FirstBits: 2, Digest: digest.SHA1, KAnonymity: 2, AnonymityImpact: 2},
		{FirstBits: 2, Digest: digest.SHA256, KAnonymity: 3, AnonymityImpact: 3},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}

	best := BestPerLength(entries)
	if len(best) != 2 || best[0].Digest != digest.SHA1 || best[1].Digest != digest.SHA256 {
		t.Errorf("BestPerLength() = %+v", best)
	}
}

// TestBestPerLengthTie tests that ties keep the first registry digest.
func TestBestPerLengthTie(t *testing.T) {
	t.Parallel()

	entries := []model.AnonymityEntry{
		model.NewAnonymityEntry(1, digest.SHA512, 4),
		model.NewAnonymityEntry(1, digest.SHA3_256, 4),
	}
	best := BestPerLength(entries)
	if len(best) != 1 || best[0].Digest != digest.SHA512 {
		t.Errorf("BestPerLength() = %+v", best)
	}
}

// TestMaxSweepLength tests the shortest digest bound.
func TestMaxSweepLength(t *testing.T) {
	t.Parallel()

	// MD2 is the shortest registry digest with 32 hex characters.
	if got := MaxSweepLength(); got != 32 {
		t.Errorf("MaxSweepLength() = %d, want 32", got)
	}
}
