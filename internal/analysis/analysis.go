package analysis

import (
	"context"
	"fmt"

	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/config"
	"github.com/nao1215/passprivacy/internal/model"
)

// Analysis is the state one run threads through the pipeline steps.
type Analysis struct {
	// Config holds the validated run parameters.
	Config *config.Config

	// Passwords is the loaded corpus. It is read-only once loaded.
	Passwords []string

	// Report is the evaluation result.
	Report *model.Report

	// CSVPath is the sweep CSV written in matrix mode.
	CSVPath string

	// Warnings collects problems that did not stop the run.
	Warnings []string

	// Performed lists the names of the steps that completed.
	Performed []string
}

// NewAnalysis creates the state for a run with cfg.
func NewAnalysis(cfg *config.Config) *Analysis {
	return &Analysis{Config: cfg}
}

// Evaluate runs the mode implied by cfg over passwords and returns the
// resulting report. The bucket map is kept only in single mode with
// cfg.Debug set.
func Evaluate(ctx context.Context, ev *anonymity.Evaluator, cfg *config.Config, passwords []string) (*model.Report, error) {
	mode := cfg.Mode()
	report := model.NewReport(mode, cfg.DatasetPath, len(passwords))

	switch mode {
	case model.ModeSingle:
		buckets, err := ev.Single(ctx, cfg.Digest, cfg.FirstBits, passwords)
		if err != nil {
			return nil, err
		}
		report.FirstBits = cfg.FirstBits
		report.Digest = cfg.Digest
		report.KAnonymity = anonymity.KAnonymity(buckets)
		if cfg.Debug {
			report.Buckets = buckets
		}

	case model.ModeCompare:
		best, scores, err := ev.Best(ctx, cfg.FirstBits, passwords)
		if err != nil {
			return nil, err
		}
		report.FirstBits = cfg.FirstBits
		report.Digests = scores
		report.Best = &best

	case model.ModeSweep:
		scores, err := ev.Sweep(ctx, cfg.Digest, passwords, cfg.MaxFirstBits)
		if err != nil {
			return nil, err
		}
		report.Digest = cfg.Digest
		report.MaxFirstBits = cfg.MaxFirstBits
		report.Lengths = scores
		if avg, ok := anonymity.AverageKAnonymity(scores); ok {
			report.Average = &avg
		}

	case model.ModeMatrix:
		entries, err := ev.Matrix(ctx, passwords, cfg.MaxFirstBits)
		if err != nil {
			return nil, err
		}
		report.MaxFirstBits = cfg.MaxFirstBits
		report.Entries = entries

	default:
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownMode, int(mode))
	}

	return report, nil
}
