package anonymity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNewEvaluator tests the Evaluator constructor.
func TestNewEvaluator(t *testing.T) {
	t.Parallel()

	t.Run("creates evaluator with defaults", func(t *testing.T) {
		t.Parallel()

		e := NewEvaluator()
		if e.Concurrency() < 1 {
			t.Errorf("expected positive default concurrency, got %d", e.Concurrency())
		}
		if e.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		if e := NewEvaluator(WithConcurrency(3)); e.Concurrency() != 3 {
			t.Errorf("expected concurrency 3, got %d", e.Concurrency())
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		def := NewEvaluator().Concurrency()
		if e := NewEvaluator(WithConcurrency(-1)); e.Concurrency() != def {
			t.Errorf("expected concurrency %d, got %d", def, e.Concurrency())
		}
	})

	t.Run("WithLogger(nil) falls back to default", func(t *testing.T) {
		t.Parallel()

		if e := NewEvaluator(WithLogger(nil)); e.logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

// TestEvaluatorMatchesSequential tests that concurrent results equal the
// sequential engine functions.
func TestEvaluatorMatchesSequential(t *testing.T) {
	t.Parallel()

	passwords := append(corpus(400), "same", "same")
	e := NewEvaluator(WithConcurrency(4), WithLogger(quietLogger()))
	ctx := context.Background()

	t.Run("Single", func(t *testing.T) {
		t.Parallel()

		got, err := e.Single(ctx, digest.SHA512, 3, passwords)
		if err != nil {
			t.Fatal(err)
		}
		want, err := Bucket(digest.SHA512, 3, passwords)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) || got.Total() != want.Total() {
			t.Fatalf("got %d buckets over %d passwords, want %d over %d", len(got), got.Total(), len(want), want.Total())
		}
		for prefix, count := range want {
			if got[prefix] != count {
				t.Errorf("bucket %q = %d, want %d", prefix, got[prefix], count)
			}
		}
	})

	t.Run("Compare", func(t *testing.T) {
		t.Parallel()

		got, err := e.Compare(ctx, 2, passwords)
		if err != nil {
			t.Fatal(err)
		}
		want, err := CompareDigests(2, passwords)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d scores, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("scores[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("Best", func(t *testing.T) {
		t.Parallel()

		best, scores, err := e.Best(ctx, 1, passwords)
		if err != nil {
			t.Fatal(err)
		}
		want, err := BestDigest(1, passwords)
		if err != nil {
			t.Fatal(err)
		}
		if best != want {
			t.Errorf("Best() = %+v, want %+v", best, want)
		}
		if len(scores) != len(digest.Algorithms()) {
			t.Errorf("got %d scores", len(scores))
		}
	})

	t.Run("Sweep", func(t *testing.T) {
		t.Parallel()

		got, err := e.Sweep(ctx, digest.SHA3_512, passwords, 10)
		if err != nil {
			t.Fatal(err)
		}
		want, err := SweepLengths(digest.SHA3_512, passwords, 10)
		if err != nil {
			t.Fatal(err)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("scores[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("Matrix", func(t *testing.T) {
		t.Parallel()

		entries, err := e.Matrix(ctx, passwords, 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != MatrixSize(3) {
			t.Fatalf("got %d entries, want %d", len(entries), MatrixSize(3))
		}
		algorithms := digest.Algorithms()
		for i, entry := range entries {
			wantLen := i/len(algorithms) + 1
			wantDigest := algorithms[i%len(algorithms)]
			if entry.FirstBits != wantLen || entry.Digest != wantDigest {
				t.Errorf("entries[%d] = %d/%s, want %d/%s", i, entry.FirstBits, entry.Digest, wantLen, wantDigest)
			}
			k, err := Evaluate(entry.Digest, entry.FirstBits, passwords)
			if err != nil {
				t.Fatal(err)
			}
			if entry.KAnonymity != k {
				t.Errorf("entries[%d].KAnonymity = %d, want %d", i, entry.KAnonymity, k)
			}
			if entry.AnonymityImpact != (entry.FirstBits-1)*k {
				t.Errorf("entries[%d].AnonymityImpact = %d", i, entry.AnonymityImpact)
			}
		}
	})
}

// TestEvaluatorTieBreak tests that concurrent scheduling never changes
// which digest wins a tie.
func TestEvaluatorTieBreak(t *testing.T) {
	t.Parallel()

	passwords := []string{"tie", "tie", "tie"}
	e := NewEvaluator(WithConcurrency(len(digest.Algorithms())), WithLogger(quietLogger()))

	for range 20 {
		best, _, err := e.Best(context.Background(), 3, passwords)
		if err != nil {
			t.Fatal(err)
		}
		if best.Digest != digest.SHA1 || best.KAnonymity != 3 {
			t.Fatalf("Best() = %+v, want SHA1 with 3", best)
		}
	}
}

// TestEvaluatorObserver tests that the observer sees every evaluation.
func TestEvaluatorObserver(t *testing.T) {
	t.Parallel()

	var (
		count atomic.Int64
		mu    sync.Mutex
		seen  = make(map[model.LengthScore]bool)
	)
	e := NewEvaluator(
		WithConcurrency(2),
		WithLogger(quietLogger()),
		WithObserver(func(ev Evaluation) {
			count.Add(1)
			mu.Lock()
			seen[model.LengthScore{FirstBits: ev.FirstBits, KAnonymity: ev.KAnonymity}] = true
			mu.Unlock()
		}),
	)

	if _, err := e.Sweep(context.Background(), digest.SHA1, corpus(50), 5); err != nil {
		t.Fatal(err)
	}
	if count.Load() != 5 {
		t.Errorf("observer called %d times, want 5", count.Load())
	}
	if len(seen) == 0 {
		t.Error("observer recorded nothing")
	}
}

// TestEvaluatorErrors tests error propagation and cancellation.
func TestEvaluatorErrors(t *testing.T) {
	t.Parallel()

	e := NewEvaluator(WithLogger(quietLogger()))

	t.Run("invalid truncation", func(t *testing.T) {
		t.Parallel()

		_, err := e.Compare(context.Background(), 0, corpus(3))
		if !errors.Is(err, ErrInvalidTruncation) {
			t.Errorf("expected ErrInvalidTruncation, got %v", err)
		}
	})

	t.Run("out of range in matrix", func(t *testing.T) {
		t.Parallel()

		_, err := e.Matrix(context.Background(), corpus(3), 33)
		if !errors.Is(err, ErrTruncationOutOfRange) {
			t.Errorf("expected ErrTruncationOutOfRange, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Sweep(ctx, digest.SHA256, corpus(10), 4)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("empty corpus is not an error", func(t *testing.T) {
		t.Parallel()

		scores, err := e.Compare(context.Background(), 4, nil)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range scores {
			if s.KAnonymity != 0 {
				t.Errorf("%s: got %d, want 0", s.Digest, s.KAnonymity)
			}
		}
	})
}
