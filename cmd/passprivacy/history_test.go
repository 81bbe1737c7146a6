package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/passprivacy/internal/config"
	"github.com/nao1215/passprivacy/internal/database"
	"github.com/nao1215/passprivacy/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	if cmd.Use != "history" {
		t.Errorf("expected use 'history', got %q", cmd.Use)
	}

	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("expected limit flag")
	}
	if flag.DefValue != "20" {
		t.Errorf("expected default limit 20, got %q", flag.DefValue)
	}
	for _, name := range []string{"id", "delete", "json", "markdown", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

// TestHistoryEmpty tests listing before any run was saved.
func TestHistoryEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", "")

	stdout, _, err := runRoot(t, "history", "-c", env.config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No analysis runs found") {
		t.Errorf("expected empty message, got %q", stdout)
	}

	_, _, err = runRoot(t, "history", "-c", env.config, "--id", "missing")
	if !errors.Is(err, database.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

// TestHistoryFlagErrors tests flag combinations rejected before the database is opened.
func TestHistoryFlagErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", "")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "delete without id", args: []string{"--delete"}, wantMsg: "--delete requires --id"},
		{name: "two formats", args: []string{"-j", "-m"}, wantErr: config.ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"history", "-c", env.config}, tt.args...)
			_, _, err := runRoot(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %v", tt.wantMsg, err)
			}
		})
	}
}

// TestHistoryLifecycle saves runs with analyze, then lists, shows and deletes them.
func TestHistoryLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", "")

	for _, args := range [][]string{
		{"-b", "3", "-d", "SHA1"},
		{"-b", "3"},
	} {
		full := append([]string{"analyze", "-c", env.config, "-p", env.corpus}, args...)
		if _, _, err := runRoot(t, full...); err != nil {
			t.Fatalf("analyze %v: %v", args, err)
		}
	}

	stdout, _, err := runRoot(t, "history", "-c", env.config, "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var runs []database.RunMetadata
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Mode != model.ModeCompare || runs[1].Mode != model.ModeSingle {
		t.Errorf("expected newest first, got %s then %s", runs[0].Mode, runs[1].Mode)
	}
	for _, run := range runs {
		if run.PasswordCount != 3 || run.Summary != 3 {
			t.Errorf("run %s: expected 3 passwords and k 3, got %d and %d", run.ID, run.PasswordCount, run.Summary)
		}
	}

	t.Run("table", func(t *testing.T) {
		stdout, _, err := runRoot(t, "history", "-c", env.config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Analysis runs (2)", runs[0].ID, runs[1].ID, "compare", "single"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		stdout, _, err := runRoot(t, "history", "-c", env.config, "--limit", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Analysis runs (1)") {
			t.Errorf("expected one run, got:\n%s", stdout)
		}
	})

	t.Run("show", func(t *testing.T) {
		stdout, _, err := runRoot(t, "history", "-c", env.config, "--id", runs[1].ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "K-Anonymity achieved: 3") {
			t.Errorf("expected single report, got:\n%s", stdout)
		}
	})

	t.Run("show markdown", func(t *testing.T) {
		stdout, _, err := runRoot(t, "history", "-c", env.config, "--id", runs[0].ID, "-m")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "## Digest Comparison") {
			t.Errorf("expected compare section, got:\n%s", stdout)
		}
	})

	t.Run("delete", func(t *testing.T) {
		stdout, _, err := runRoot(t, "history", "-c", env.config, "--id", runs[0].ID, "--delete")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Deleted run "+runs[0].ID) {
			t.Errorf("expected delete message, got %q", stdout)
		}

		_, _, err = runRoot(t, "history", "-c", env.config, "--id", runs[0].ID)
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})
}
