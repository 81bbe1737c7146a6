package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/passprivacy/internal/analysis"
	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/config"
	"github.com/nao1215/passprivacy/internal/database"
	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/log"
	"github.com/nao1215/passprivacy/internal/model"
	"github.com/nao1215/passprivacy/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Measure the k-anonymity of a password corpus",
		Long: `Analyze reads a CSV corpus with a "password" column and measures the
k-anonymity the passwords keep under truncated hashes.

The parameters select the analysis:
- --first-bits and --for-digest: k-anonymity of one digest at one length
- --first-bits only:             every digest at one length, best one selected
- --for-digest only:             one digest at every length, averaged
- neither:                       every digest at every length, written as CSV

"First bits" counts leading hex characters of the digest, each carrying
four bits, so --first-bits 5 keeps 20 bits.

Examples:
  # K-anonymity of SHA1 truncated to 5 hex characters
  passprivacy analyze -p passwords.csv -b 5 -d SHA1

  # Show the bucket sizes as well
  passprivacy analyze -p passwords.csv -b 5 -d SHA1 --debug

  # Find the best digest for 5 hex characters
  passprivacy analyze -p passwords.csv -b 5

  # Sweep SHA256 over every length
  passprivacy analyze -p passwords.csv -d SHA256

  # Write the full sweep to datasets/anonymities.csv
  passprivacy analyze -p passwords.csv

  # Markdown report written to a file
  passprivacy analyze -p passwords.csv -b 5 -m -o report.md`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}

	// Input and analysis parameters
	cmd.Flags().StringP("path-to-file", "p", "",
		"CSV file with a password column (required)")
	cmd.Flags().IntP("first-bits", "b", 0,
		"Truncation length in hex characters (each hex character is 4 bits)")
	cmd.Flags().StringP("for-digest", "d", "",
		"Digest to evaluate (see 'passprivacy digests')")
	cmd.Flags().Bool("debug", false,
		"Print the bucket map when both --first-bits and --for-digest are set")
	cmd.Flags().Int("max-first-bits", config.DefaultMaxFirstBits,
		"Largest truncation length evaluated by sweeps")
	cmd.Flags().Int("concurrency", 0,
		"Number of evaluations running at once (default: number of CPUs)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .passprivacy in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("csv-output", config.DefaultCSVOutput,
		"Sweep CSV path used when neither --first-bits nor --for-digest is set")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")
	cmd.Flags().Bool("progress", false,
		"Show a progress bar on stderr")

	// History and logging flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")
	cmd.Flags().String("log-file", "",
		"Also write logs to this file (rotated); a bare name goes to the XDG state directory")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer := setupLogger(cfg)
	defer closer.Close()
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runAnalysis(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	cfg.DatasetPath, err = flags.GetString("path-to-file")
	if err != nil {
		return nil, err
	}

	if flags.Changed("first-bits") {
		n, err := flags.GetInt("first-bits")
		if err != nil {
			return nil, err
		}
		if err := cfg.SetFirstBits(n); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	if flags.Changed("for-digest") {
		name, err := flags.GetString("for-digest")
		if err != nil {
			return nil, err
		}
		cfg.Digest, err = digest.ParseAlgorithm(name)
		if err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	if flags.Changed("max-first-bits") {
		if cfg.MaxFirstBits, err = flags.GetInt("max-first-bits"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
		if cfg.Concurrency <= 0 {
			cfg.Concurrency = runtime.NumCPU()
		}
	}

	// A report format flag replaces the format of the configuration file.
	// Both flags together are left for Validate to reject.
	jsonChanged, markdownChanged := flags.Changed("json"), flags.Changed("markdown")
	if jsonChanged {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.JSONReport && !markdownChanged {
			cfg.MarkdownReport = false
		}
	}
	if markdownChanged {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport && !jsonChanged {
			cfg.JSONReport = false
		}
	}

	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if flags.Changed("csv-output") {
		if cfg.CSVOutput, err = flags.GetString("csv-output"); err != nil {
			return nil, err
		}
	}

	debug, err := flags.GetBool("debug")
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || debug

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}
	cfg.NoColor = cfg.NoColor || noColor

	progress, err := flags.GetBool("progress")
	if err != nil {
		return nil, err
	}
	cfg.Progress = cfg.Progress || progress

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if noSave {
		cfg.SaveToDB = false
	}

	if flags.Changed("log-file") {
		if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyConfigFile loads the configuration file, if any, onto cfg.
// If the user explicitly specified a config file path, a missing file is
// an error. Otherwise the defaults are kept.
func applyConfigFile(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	if err := file.Apply(cfg); err != nil {
		return fmt.Errorf("failed to apply config file %s: %w", configPath, err)
	}
	return nil
}

// setupLogger creates the structured logger described by cfg.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	return log.New(os.Stderr, log.Options{
		Verbose:    cfg.Verbose,
		JSON:       cfg.JSONLog,
		File:       cfg.LogPath(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
}

// runAnalysis executes the analysis pipeline and writes the report.
func runAnalysis(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"dataset", cfg.DatasetPath,
		"mode", cfg.Mode().String(),
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	evaluatorOpts := []anonymity.EvaluatorOption{
		anonymity.WithConcurrency(cfg.Concurrency),
		anonymity.WithLogger(logger),
	}

	var bar *progressBar
	if cfg.Progress {
		bar = newProgressBar(stderr, cfg.Mode().String(), evaluationCount(cfg))
		evaluatorOpts = append(evaluatorOpts, anonymity.WithObserver(bar.observe))
	}

	// A history database that cannot be opened disables history for this
	// run only.
	var store analysis.ReportSaver
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled", "dir", cfg.DBDir, "error", err)
			fmt.Fprintf(stderr, "Warning: run history disabled: %v\n", err)
		} else {
			defer db.Close()
			logger.Info("database opened", "dir", cfg.DBDir)
			store = db
		}
	}

	p := analysis.NewDefaultPipeline(anonymity.NewEvaluator(evaluatorOpts...), store, logger)
	a := analysis.NewAnalysis(cfg)

	startTime := time.Now()
	err := p.Execute(ctx, a)
	bar.finish(err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("analysis cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	logger.Info("analysis completed",
		"mode", a.Report.Mode.String(),
		"elapsed", time.Since(startTime).Round(time.Millisecond).String(),
	)

	for _, w := range a.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}

	if err := outputReport(cfg, a.Report, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if a.CSVPath != "" {
		fmt.Fprintf(stderr, "Sweep written to %s\n", a.CSVPath)
	}
	return nil
}

// evaluationCount returns the number of digest/length evaluations the
// mode of cfg performs.
func evaluationCount(cfg *config.Config) int {
	switch cfg.Mode() {
	case model.ModeSingle:
		return 1
	case model.ModeCompare:
		return len(digest.Algorithms())
	case model.ModeSweep:
		return cfg.MaxFirstBits
	default:
		return anonymity.MatrixSize(cfg.MaxFirstBits)
	}
}

// outputReport writes r in the requested format to the report file, or to
// stdout when no file is configured.
func outputReport(cfg *config.Config, r *model.Report, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may list bucket prefixes, so only the owner may read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	// Colors only make sense on a terminal.
	useColor := !cfg.NoColor && !color.NoColor && cfg.ReportFile == ""

	w := report.NewWriter(formatFor(cfg.JSONReport, cfg.MarkdownReport), output, report.Options{
		Color:    useColor,
		Version:  getVersion(),
		Language: cfg.Language,
	})
	_, err := w.Write(r)
	return err
}
