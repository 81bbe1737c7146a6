package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/dataset"
	"github.com/nao1215/passprivacy/internal/model"
)

// ErrNoReport is returned by steps that need a report when the evaluation
// step has not produced one.
var ErrNoReport = errors.New("no report: evaluation has not run")

// LoadDatasetStep reads the password corpus from Config.DatasetPath.
// A corpus that is already loaded is kept.
type LoadDatasetStep struct {
	logger *slog.Logger
}

// NewLoadDatasetStep creates a dataset loading step.
func NewLoadDatasetStep(logger *slog.Logger) *LoadDatasetStep {
	return &LoadDatasetStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *LoadDatasetStep) Name() string {
	return "load_dataset"
}

// Do executes the dataset loading step.
func (s *LoadDatasetStep) Do(_ context.Context, a *Analysis) error {
	if a.Passwords != nil {
		return nil
	}
	passwords, err := dataset.ReadPasswordsFile(a.Config.DatasetPath)
	if err != nil {
		return err
	}
	a.Passwords = passwords

	s.logger.Debug("dataset loaded",
		"dataset", a.Config.DatasetPath,
		"corpus_size", len(passwords),
	)
	if len(passwords) == 0 {
		a.Warnings = append(a.Warnings, "dataset contains no passwords; every k-anonymity is 0")
	}
	return nil
}

// EvaluateStep evaluates the corpus in the configured mode.
type EvaluateStep struct {
	evaluator *anonymity.Evaluator
}

// NewEvaluateStep creates an evaluation step backed by ev.
func NewEvaluateStep(ev *anonymity.Evaluator) *EvaluateStep {
	return &EvaluateStep{evaluator: ev}
}

// Name returns the step name.
func (s *EvaluateStep) Name() string {
	return "evaluate"
}

// Do executes the evaluation step.
func (s *EvaluateStep) Do(ctx context.Context, a *Analysis) error {
	report, err := Evaluate(ctx, s.evaluator, a.Config, a.Passwords)
	if err != nil {
		return err
	}
	a.Report = report
	return nil
}

// ExportCSVStep writes the sweep CSV in matrix mode. Other modes are left
// untouched.
type ExportCSVStep struct {
	logger *slog.Logger
}

// NewExportCSVStep creates a CSV export step.
func NewExportCSVStep(logger *slog.Logger) *ExportCSVStep {
	return &ExportCSVStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ExportCSVStep) Name() string {
	return "export_csv"
}

// Do executes the CSV export step.
func (s *ExportCSVStep) Do(_ context.Context, a *Analysis) error {
	if a.Report == nil {
		return ErrNoReport
	}
	if a.Report.Mode != model.ModeMatrix {
		return nil
	}

	path := a.Config.CSVOutput
	if err := dataset.WriteAnonymitiesFile(path, a.Report.Entries); err != nil {
		return fmt.Errorf("failed to export sweep: %w", err)
	}
	a.CSVPath = path

	s.logger.Info("sweep exported",
		"path", path,
		"rows", len(a.Report.Entries),
	)
	return nil
}

// ReportSaver stores reports. It is satisfied by *database.HistoryDB.
type ReportSaver interface {
	SaveReport(ctx context.Context, report *model.Report) (string, error)
}

// SaveHistoryStep records the report in the history store.
//
// Design decision: A failing store does not fail the run. The analysis
// result is already complete, so the failure becomes a warning.
type SaveHistoryStep struct {
	store  ReportSaver
	logger *slog.Logger
}

// NewSaveHistoryStep creates a history step writing to store.
func NewSaveHistoryStep(store ReportSaver, logger *slog.Logger) *SaveHistoryStep {
	return &SaveHistoryStep{store: store, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *SaveHistoryStep) Name() string {
	return "save_history"
}

// Do executes the history step.
func (s *SaveHistoryStep) Do(ctx context.Context, a *Analysis) error {
	if a.Report == nil {
		return ErrNoReport
	}
	if !a.Config.SaveToDB || s.store == nil {
		return nil
	}

	id, err := s.store.SaveReport(ctx, a.Report)
	if err != nil {
		s.logger.Warn("failed to save run", "error", err)
		a.Warnings = append(a.Warnings, fmt.Sprintf("run was not saved to history: %v", err))
		return nil
	}
	s.logger.Debug("run saved", "run_id", id)
	return nil
}

// NewDefaultPipeline builds the standard run: load, evaluate, export and
// save. A nil store skips the history step.
func NewDefaultPipeline(ev *anonymity.Evaluator, store ReportSaver, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(orDefault(logger)))
	p.AddSteps(
		NewLoadDatasetStep(logger),
		NewEvaluateStep(ev),
		NewExportCSVStep(logger),
	)
	if store != nil {
		p.AddStep(NewSaveHistoryStep(store, logger))
	}
	return p
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
