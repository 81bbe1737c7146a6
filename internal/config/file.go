package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/nao1215/passprivacy/internal/digest"
)

// Report format names accepted in the configuration file.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// AnalysisSettings holds the analysis defaults from the configuration file.
type AnalysisSettings struct {
	// Digest is the default digest, e.g. "SHA256".
	// If empty, every digest is evaluated.
	Digest string `yaml:"digest,omitempty"`

	// FirstBits is the default truncation length in hex characters.
	// If zero, every length up to MaxFirstBits is evaluated.
	FirstBits int `yaml:"firstBits,omitempty"`

	// MaxFirstBits overrides the sweep limit.
	MaxFirstBits int `yaml:"maxFirstBits,omitempty"`

	// Concurrency overrides the number of parallel evaluations.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// OutputSettings holds report output defaults.
type OutputSettings struct {
	// Format is one of text, json or markdown.
	Format string `yaml:"format,omitempty"`

	// CSV is the sweep CSV path for matrix mode.
	CSV string `yaml:"csv,omitempty"`

	// Color toggles ANSI colors. A nil value keeps the default.
	Color *bool `yaml:"color,omitempty"`

	// Progress shows a progress bar while evaluating.
	Progress bool `yaml:"progress,omitempty"`

	// Language is a BCP 47 tag such as "de" or "fr-CH" for digit grouping.
	Language string `yaml:"language,omitempty"`
}

// LogSettings holds log file settings.
type LogSettings struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `yaml:"maxBackups,omitempty"`
	JSON       bool   `yaml:"json,omitempty"`
}

// HistorySettings holds run history settings.
type HistorySettings struct {
	// Enabled toggles saving runs. A nil value keeps the default.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Dir overrides the database directory.
	Dir string `yaml:"dir,omitempty"`
}

// File represents the structure of the .passprivacy configuration file.
type File struct {
	Analysis AnalysisSettings `yaml:"analysis,omitempty"`
	Output   OutputSettings   `yaml:"output,omitempty"`
	Log      LogSettings      `yaml:"log,omitempty"`
	History  HistorySettings  `yaml:"history,omitempty"`
}

// Apply copies the non-empty values of the file onto c.
// Command-line flags are applied afterwards and take precedence.
func (f *File) Apply(c *Config) error {
	if f == nil {
		return nil
	}

	if f.Analysis.Digest != "" {
		a, err := digest.ParseAlgorithm(f.Analysis.Digest)
		if err != nil {
			return fmt.Errorf("config file analysis.digest: %w", err)
		}
		c.Digest = a
	}
	if f.Analysis.FirstBits != 0 {
		if err := c.SetFirstBits(f.Analysis.FirstBits); err != nil {
			return fmt.Errorf("config file analysis.firstBits: %w", err)
		}
	}
	if f.Analysis.MaxFirstBits != 0 {
		c.MaxFirstBits = f.Analysis.MaxFirstBits
	}
	if f.Analysis.Concurrency != 0 {
		c.Concurrency = f.Analysis.Concurrency
	}

	switch strings.ToLower(f.Output.Format) {
	case "", FormatText:
	case FormatJSON:
		c.JSONReport = true
	case FormatMarkdown:
		c.MarkdownReport = true
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReportFormat, f.Output.Format)
	}
	if f.Output.CSV != "" {
		c.CSVOutput = f.Output.CSV
	}
	if f.Output.Color != nil {
		c.NoColor = !*f.Output.Color
	}
	if f.Output.Progress {
		c.Progress = true
	}
	if f.Output.Language != "" {
		tag, err := language.Parse(f.Output.Language)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, f.Output.Language)
		}
		c.Language = tag
	}

	if f.Log.File != "" {
		c.LogFile = f.Log.File
	}
	if f.Log.MaxSizeMB != 0 {
		c.LogMaxSizeMB = f.Log.MaxSizeMB
	}
	if f.Log.MaxBackups != 0 {
		c.LogMaxBackups = f.Log.MaxBackups
	}
	if f.Log.JSON {
		c.JSONLog = true
	}

	if f.History.Enabled != nil {
		c.SaveToDB = *f.History.Enabled
	}
	if f.History.Dir != "" {
		c.DBDir = f.History.Dir
	}

	return nil
}
