package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/nao1215/passprivacy/internal/config"
	"github.com/nao1215/passprivacy/internal/database"
	"github.com/nao1215/passprivacy/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command shows analysis runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored analysis runs",
		Long: `History lists the analysis runs recorded by 'passprivacy analyze'.

Only k-anonymity numbers are stored. Passwords, digests and bucket
prefixes never reach the database.

Examples:
  # List the latest runs
  passprivacy history

  # List every run
  passprivacy history --limit 0

  # Show one run as a report
  passprivacy history --id 3f1c2a4e-...

  # Show one run as Markdown
  passprivacy history --id 3f1c2a4e-... --markdown

  # Delete a run
  passprivacy history --id 3f1c2a4e-... --delete`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("id", "i", "",
		"Show the run with this ID (use 'passprivacy history' to see available IDs)")
	cmd.Flags().Bool("delete", false,
		"Delete the run given with --id")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists every run)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .passprivacy in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the run given with --id in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	deleteRun, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Validate flags before opening the database.
	if deleteRun && id == "" {
		return errors.New("--delete requires --id")
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	cfg := config.NewConfig()
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := applyConfigFile(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.DBPath()); os.IsNotExist(err) {
		if id != "" {
			return fmt.Errorf("%w: %s", database.ErrRunNotFound, id)
		}
		fmt.Fprintln(out, "No analysis runs found in the database.")
		fmt.Fprintln(out, "\nUse 'passprivacy analyze -p <file>' to analyze a password corpus.")
		return nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	switch {
	case deleteRun:
		if err := db.DeleteRun(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s\n", id)
		return nil
	case id != "":
		return showRun(ctx, db, id, out, formatFor(jsonOutput, markdownOutput), cfg)
	default:
		return listRuns(ctx, db, limit, out, jsonOutput)
	}
}

// formatFor returns the writer format selected by the output flags.
func formatFor(jsonOutput, markdownOutput bool) report.Format {
	switch {
	case jsonOutput:
		return report.FormatJSON
	case markdownOutput:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

// showRun writes one stored run as a report, honouring the color and
// language settings of cfg.
func showRun(ctx context.Context, db *database.HistoryDB, id string, w io.Writer, format report.Format, cfg *config.Config) error {
	r, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	writer := report.NewWriter(format, w, report.Options{
		Color:    !cfg.NoColor && !color.NoColor,
		Version:  getVersion(),
		Language: cfg.Language,
	})
	_, err = writer.Write(r)
	return err
}

// listRuns writes the stored runs, newest first.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int, w io.Writer, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.RunMetadata{}
		}
		_, err := report.NewJSONWriter(w, report.WithPrettyPrint()).WriteValue(runs)
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No analysis runs found in the database.")
		fmt.Fprintln(w, "\nUse 'passprivacy analyze -p <file>' to analyze a password corpus.")
		return nil
	}

	headerfmt := color.New(color.FgGreen, color.Underline).SprintFunc()

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow(headerfmt("ID"), headerfmt("CREATED"), headerfmt("MODE"),
		headerfmt("DATASET"), headerfmt("PASSWORDS"), headerfmt("K"))
	for _, run := range runs {
		table.AddRow(
			run.ID,
			humanize.Time(run.CreatedAt),
			run.Mode.String(),
			run.Dataset,
			humanize.Comma(int64(run.PasswordCount)),
			strconv.Itoa(run.Summary),
		)
	}

	fmt.Fprintf(w, "Analysis runs (%d):\n\n", len(runs))
	fmt.Fprintln(w, table)
	fmt.Fprintln(w, "\nUse 'passprivacy history --id <id>' to show a run.")
	return nil
}
