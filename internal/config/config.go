package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/database"
	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

// Default configuration values.
const (
	// DefaultMaxFirstBits is the largest truncation length swept when no
	// length is given. Ten hex characters (40 bits) is where most corpora
	// fall to 1-anonymity.
	DefaultMaxFirstBits = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "passprivacy"

	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 3
)

// DefaultCSVOutput is the path of the sweep CSV relative to the working directory.
var DefaultCSVOutput = filepath.Join("datasets", "anonymities.csv")

// Config holds all configuration options for passprivacy.
// This struct is populated from defaults, the configuration file and CLI
// flags, and passed through the application rather than kept as global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity, matching the flat flag set of the analyze command.
type Config struct {
	// DatasetPath is the CSV file holding the password corpus.
	DatasetPath string

	// FirstBits is the truncation length in hex characters. Zero means
	// unset: every length from 1 to MaxFirstBits is evaluated.
	FirstBits int

	// Digest is the algorithm to evaluate. The zero value means unset:
	// every registry digest is evaluated.
	Digest digest.Algorithm

	// Debug prints the bucket map in single mode.
	Debug bool

	// MaxFirstBits is the largest truncation length for sweep and matrix modes.
	MaxFirstBits int

	// Concurrency is the number of evaluations running at once.
	Concurrency int

	// CSVOutput is where matrix mode writes the sweep CSV.
	CSVOutput string

	// JSONReport enables JSON report output instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// NoColor disables ANSI colors in text reports.
	NoColor bool

	// Language selects the digit grouping of counts in text reports.
	// language.Und keeps English.
	Language language.Tag

	// Progress shows a progress bar on stderr while evaluating.
	Progress bool

	// Verbose enables debug-level logging.
	Verbose bool

	// SaveToDB stores the report numbers in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/passprivacy on Linux).
	DBDir string

	// LogFile, when set, receives log output in addition to stderr and is
	// rotated at LogMaxSizeMB. A bare file name is placed in XDGStateDir.
	LogFile string

	// LogMaxSizeMB is the rotation size of LogFile in megabytes.
	LogMaxSizeMB int

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups int

	// JSONLog switches log output to JSON lines.
	JSONLog bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current directory, the home
	// directory and the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (max first bits,
// concurrency, history directory).
func NewConfig() *Config {
	return &Config{
		MaxFirstBits:  DefaultMaxFirstBits,
		Concurrency:   runtime.NumCPU(),
		CSVOutput:     DefaultCSVOutput,
		SaveToDB:      true,
		DBDir:         XDGDataDir(),
		LogMaxSizeMB:  DefaultLogMaxSizeMB,
		LogMaxBackups: DefaultLogMaxBackups,
	}
}

// XDGDataDir returns the XDG data directory for passprivacy.
// On Linux: ~/.local/share/passprivacy
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for passprivacy.
// On Linux: ~/.config/passprivacy
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGStateDir returns the XDG state directory, where log files go by default.
// On Linux: ~/.local/state/passprivacy
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// LogPath returns where log output is written, or "" when file logging
// is off. A LogFile without a directory component resolves to XDGStateDir.
func (c *Config) LogPath() string {
	if c.LogFile == "" || filepath.Base(c.LogFile) != c.LogFile {
		return c.LogFile
	}
	return filepath.Join(XDGStateDir(), c.LogFile)
}

// SetFirstBits sets an explicitly requested truncation length. Unlike the
// zero value of FirstBits, an explicit 0 is an error.
func (c *Config) SetFirstBits(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFirstBits, n)
	}
	c.FirstBits = n
	return nil
}

// HasFirstBits reports whether a truncation length was requested.
func (c *Config) HasFirstBits() bool {
	return c.FirstBits > 0
}

// HasDigest reports whether a single digest was requested.
func (c *Config) HasDigest() bool {
	return c.Digest != 0
}

// Mode returns the analysis mode implied by the parameters.
func (c *Config) Mode() model.Mode {
	switch {
	case c.HasFirstBits() && c.HasDigest():
		return model.ModeSingle
	case c.HasFirstBits():
		return model.ModeCompare
	case c.HasDigest():
		return model.ModeSweep
	default:
		return model.ModeMatrix
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.DatasetPath == "" {
		return ErrNoDataset
	}

	if c.MaxFirstBits < 1 || c.MaxFirstBits > anonymity.MaxSweepLength() {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxFirstBits, c.MaxFirstBits)
	}

	if c.FirstBits < 0 || c.FirstBits > c.MaxFirstBits {
		return fmt.Errorf("%w: got %d, max %d", ErrInvalidFirstBits, c.FirstBits, c.MaxFirstBits)
	}

	if c.HasDigest() && !c.Digest.Valid() {
		return fmt.Errorf("%w: %d", digest.ErrUnsupportedAlgorithm, int(c.Digest))
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.LogMaxSizeMB < 0 {
		return ErrInvalidLogSize
	}

	return nil
}

// DBPath returns the path of the history database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DBDir, database.FileName)
}
