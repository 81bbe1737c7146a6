package anonymity

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

// Evaluation describes one finished digest/length evaluation. It is
// passed to the observer registered with WithObserver.
type Evaluation struct {
	Digest     digest.Algorithm
	FirstBits  int
	KAnonymity int
}

// Evaluator runs independent evaluations concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
//
// Results are written into slots allocated before the goroutines start,
// so the output order, and therefore the tie-break in Best, is the same
// registry order the sequential functions use.
type Evaluator struct {
	// concurrency is the maximum number of evaluations running at once.
	concurrency int

	// logger is used for evaluation-level logging.
	logger *slog.Logger

	// observer is called after every evaluation. It may be called from
	// several goroutines at the same time.
	observer func(Evaluation)
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithConcurrency sets the maximum number of concurrent evaluations.
// Non-positive values keep the default of runtime.NumCPU().
func WithConcurrency(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithObserver registers a callback invoked after each evaluation.
// The callback must be safe for concurrent use.
func WithObserver(fn func(Evaluation)) EvaluatorOption {
	return func(e *Evaluator) {
		e.observer = fn
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Concurrency returns the configured concurrency limit.
func (e *Evaluator) Concurrency() int {
	return e.concurrency
}

// job is one digest/length combination.
type job struct {
	digest    digest.Algorithm
	firstBits int
}

// run evaluates every job and returns the k-anonymity values in job order.
// The first failing evaluation cancels the remaining ones.
func (e *Evaluator) run(ctx context.Context, jobs []job, passwords []string) ([]int, error) {
	results := make([]int, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, j := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			start := time.Now()
			buckets, err := bucketContext(ctx, j.digest, j.firstBits, passwords)
			if err != nil {
				return fmt.Errorf("evaluate %s at %d: %w", j.digest, j.firstBits, err)
			}
			k := KAnonymity(buckets)
			// Each goroutine owns its slot, so no lock is needed.
			results[i] = k

			e.logger.Debug("evaluation complete",
				"digest", j.digest.String(),
				"first_bits", j.firstBits,
				"k_anonymity", k,
				"elapsed", time.Since(start),
			)
			if e.observer != nil {
				e.observer(Evaluation{Digest: j.digest, FirstBits: j.firstBits, KAnonymity: k})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Single buckets passwords with a at length n. The bucket map is returned
// so callers can report it; its minimum is the achieved k-anonymity.
func (e *Evaluator) Single(ctx context.Context, a digest.Algorithm, n int, passwords []string) (BucketMap, error) {
	e.logger.Info("evaluating digest",
		"digest", a.String(),
		"first_bits", n,
		"corpus_size", len(passwords),
	)

	buckets, err := bucketContext(ctx, a, n, passwords)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s at %d: %w", a, n, err)
	}
	if e.observer != nil {
		e.observer(Evaluation{Digest: a, FirstBits: n, KAnonymity: KAnonymity(buckets)})
	}
	return buckets, nil
}

// Compare evaluates every registry digest at length n.
func (e *Evaluator) Compare(ctx context.Context, n int, passwords []string) ([]model.DigestScore, error) {
	algorithms := digest.Algorithms()
	jobs := make([]job, len(algorithms))
	for i, a := range algorithms {
		jobs[i] = job{digest: a, firstBits: n}
	}

	e.logger.Info("comparing digests",
		"first_bits", n,
		"digests", len(algorithms),
		"corpus_size", len(passwords),
		"concurrency", e.concurrency,
	)

	ks, err := e.run(ctx, jobs, passwords)
	if err != nil {
		return nil, err
	}

	scores := make([]model.DigestScore, len(algorithms))
	for i, a := range algorithms {
		scores[i] = model.DigestScore{Digest: a, KAnonymity: ks[i]}
	}
	return scores, nil
}

// Best evaluates every registry digest at length n and returns the best
// score together with all scores. Ties go to registry order.
func (e *Evaluator) Best(ctx context.Context, n int, passwords []string) (model.DigestScore, []model.DigestScore, error) {
	scores, err := e.Compare(ctx, n, passwords)
	if err != nil {
		return model.DigestScore{}, nil, err
	}
	best, _ := SelectBest(scores)
	return best, scores, nil
}

// Sweep evaluates a at every length from 1 to maxLength.
func (e *Evaluator) Sweep(ctx context.Context, a digest.Algorithm, passwords []string, maxLength int) ([]model.LengthScore, error) {
	jobs := make([]job, 0, max(maxLength, 0))
	for n := 1; n <= maxLength; n++ {
		jobs = append(jobs, job{digest: a, firstBits: n})
	}

	e.logger.Info("sweeping truncation lengths",
		"digest", a.String(),
		"max_first_bits", maxLength,
		"corpus_size", len(passwords),
	)

	ks, err := e.run(ctx, jobs, passwords)
	if err != nil {
		return nil, err
	}

	scores := make([]model.LengthScore, len(jobs))
	for i, j := range jobs {
		scores[i] = model.LengthScore{FirstBits: j.firstBits, KAnonymity: ks[i]}
	}
	return scores, nil
}

// Matrix evaluates every registry digest at every length from 1 to
// maxLength. Entries are ordered by length, then registry order.
func (e *Evaluator) Matrix(ctx context.Context, passwords []string, maxLength int) ([]model.AnonymityEntry, error) {
	algorithms := digest.Algorithms()
	jobs := make([]job, 0, len(algorithms)*max(maxLength, 0))
	for n := 1; n <= maxLength; n++ {
		for _, a := range algorithms {
			jobs = append(jobs, job{digest: a, firstBits: n})
		}
	}

	e.logger.Info("evaluating digest matrix",
		"evaluations", len(jobs),
		"corpus_size", len(passwords),
		"concurrency", e.concurrency,
	)

	ks, err := e.run(ctx, jobs, passwords)
	if err != nil {
		return nil, err
	}

	entries := make([]model.AnonymityEntry, len(jobs))
	for i, j := range jobs {
		entries[i] = model.NewAnonymityEntry(j.firstBits, j.digest, ks[i])
	}
	return entries, nil
}

// MatrixSize returns the number of evaluations Matrix performs.
func MatrixSize(maxLength int) int {
	return len(digest.Algorithms()) * max(maxLength, 0)
}
