package report

import (
	"io"

	"golang.org/x/text/language"

	"github.com/nao1215/passprivacy/internal/model"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the
// same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// Format names a report output format.
type Format int

const (
	// FormatText is colored console output.
	FormatText Format = iota
	// FormatJSON is pretty-printed JSON.
	FormatJSON
	// FormatMarkdown is a Markdown document.
	FormatMarkdown
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	default:
		return "text"
	}
}

// Options holds the settings NewWriter passes to the concrete writers.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool

	// Version is embedded in JSON output.
	Version string

	// Language selects the digit grouping of text output.
	// language.Und keeps English.
	Language language.Tag
}

// NewWriter returns the writer for format.
func NewWriter(format Format, output io.Writer, opts Options) Writer {
	switch format {
	case FormatJSON:
		return NewFullJSONWriter(output, opts.Version, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		textOpts := []TextWriterOption{WithColor(opts.Color)}
		if opts.Language != language.Und {
			textOpts = append(textOpts, WithLanguage(opts.Language))
		}
		return NewTextWriter(output, textOpts...)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
