package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "passprivacy.db"

// storedTimeFormat has a fixed-width fraction so stored timestamps sort
// lexically in time order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for analysis runs.
//
// Design decision: Entries are stored in their own table in addition to the
// report JSON, so a run can be listed or compared without decoding reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one analysis each, with the report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		dataset TEXT NOT NULL,
		mode TEXT NOT NULL,
		password_count INTEGER NOT NULL,
		summary INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset);

	-- Entries store every evaluated (length, digest) pair of a run
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		first_bits INTEGER NOT NULL,
		digest TEXT NOT NULL,
		k_anonymity INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
// This is used for listing history without loading the full report.
type RunMetadata struct {
	// ID is the UUID of the run.
	ID string `json:"id"`

	// CreatedAt is when the analysis ran.
	CreatedAt time.Time `json:"created_at"`

	// Dataset is the analysed file path.
	Dataset string `json:"dataset"`

	// Mode is the analysis mode.
	Mode model.Mode `json:"mode"`

	// PasswordCount is the corpus size.
	PasswordCount int `json:"password_count"`

	// Summary is the headline k-anonymity of the run.
	Summary int `json:"summary"`
}

// SaveReport stores a report and its entries in one transaction.
// An ID is generated when the report has none. It is written back to the
// report only once the transaction commits, and is returned.
// The bucket map is never stored.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.Report) (string, error) {
	id := report.ID
	if id == "" {
		id = uuid.NewString()
	}

	stored := *report
	stored.ID = id
	stored.Buckets = nil
	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, created_at, dataset, mode, password_count, summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		report.CreatedAt.UTC().Format(storedTimeFormat),
		report.Dataset,
		report.Mode.String(),
		report.PasswordCount,
		report.Summary(),
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO entries (run_id, first_bits, digest, k_anonymity)
	VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range reportEntries(report) {
		if _, err := stmt.ExecContext(ctx, id, e.FirstBits, e.Digest.String(), e.KAnonymity); err != nil {
			return "", fmt.Errorf("failed to save entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	report.ID = id
	return id, nil
}

// reportEntries flattens the mode-specific results of a report into
// (length, digest, k) rows.
func reportEntries(r *model.Report) []model.AnonymityEntry {
	switch r.Mode {
	case model.ModeSingle:
		return []model.AnonymityEntry{model.NewAnonymityEntry(r.FirstBits, r.Digest, r.KAnonymity)}
	case model.ModeCompare:
		entries := make([]model.AnonymityEntry, len(r.Digests))
		for i, s := range r.Digests {
			entries[i] = model.NewAnonymityEntry(r.FirstBits, s.Digest, s.KAnonymity)
		}
		return entries
	case model.ModeSweep:
		entries := make([]model.AnonymityEntry, len(r.Lengths))
		for i, s := range r.Lengths {
			entries[i] = model.NewAnonymityEntry(s.FirstBits, r.Digest, s.KAnonymity)
		}
		return entries
	case model.ModeMatrix:
		return r.Entries
	}
	return nil
}

// ListRuns returns run metadata, newest first. A limit of zero or less
// returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, created_at, dataset, mode, password_count, summary
	FROM runs
	ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var createdAt, mode string

		if err := rows.Scan(&meta.ID, &createdAt, &meta.Dataset, &mode, &meta.PasswordCount, &meta.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.CreatedAt = parseTimestamp(createdAt)
		if m, err := model.ParseMode(mode); err == nil {
			meta.Mode = m
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a stored report by its ID.
// It returns ErrRunNotFound when no run matches.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.Report, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// GetEntries returns the stored (length, digest, k) rows of a run in
// insertion order. Rows whose digest is no longer supported are skipped.
func (hdb *HistoryDB) GetEntries(ctx context.Context, runID string) ([]model.AnonymityEntry, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT first_bits, digest, k_anonymity
	FROM entries
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AnonymityEntry
	for rows.Next() {
		var firstBits, k int
		var name string
		if err := rows.Scan(&firstBits, &name, &k); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		a, err := digest.ParseAlgorithm(name)
		if err != nil {
			continue
		}
		entries = append(entries, model.NewAnonymityEntry(firstBits, a, k))
	}
	return entries, rows.Err()
}

// DeleteRun removes a run and its entries.
// It returns ErrRunNotFound when no run matches.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeFormat,      // written by SaveReport
	time.RFC3339Nano,      // RFC3339 with nanoseconds
	time.RFC3339,          // Full RFC3339 format
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
