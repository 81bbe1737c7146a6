package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/model"
)

// TextWriter outputs human-readable console reports.
// The result lines keep the wording of the original command-line tool so
// existing scripts that grep them keep working.
//
// Design decision: Colors come from fatih/color, which already disables
// itself when stdout is not a terminal. WithColor(false) forces plain
// output regardless.
type TextWriter struct {
	baseWriter

	// printer formats counts with digit grouping.
	printer *message.Printer

	header  *color.Color
	name    *color.Color
	value   *color.Color
	prefix  *color.Color
	caution *color.Color
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor enables or disables ANSI colors.
func WithColor(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		if enabled {
			return
		}
		for _, c := range []*color.Color{w.header, w.name, w.value, w.prefix, w.caution} {
			c.DisableColor()
		}
	}
}

// WithLanguage sets the language used for number formatting.
func WithLanguage(tag language.Tag) TextWriterOption {
	return func(w *TextWriter) {
		w.printer = message.NewPrinter(tag)
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
		header:     color.New(color.FgHiGreen),
		name:       color.New(color.FgHiMagenta),
		value:      color.New(color.FgHiGreen, color.Bold),
		prefix:     color.New(color.FgHiBlue, color.Bold),
		caution:    color.New(color.FgYellow),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	switch report.Mode {
	case model.ModeSingle:
		w.writeSingle(&sb, report)
	case model.ModeCompare:
		w.writeCompare(&sb, report)
	case model.ModeSweep:
		w.writeSweep(&sb, report)
	case model.ModeMatrix:
		w.writeMatrix(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the corpus line.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString(w.printer.Sprintf("Analysed %d passwords from %s\n", report.PasswordCount, report.Dataset))
	if report.PasswordCount == 0 {
		sb.WriteString(w.caution.Sprint("The dataset is empty: every k-anonymity is 0."))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeSingle writes the bucket map (debug only) and the achieved k.
func (w *TextWriter) writeSingle(sb *strings.Builder, report *model.Report) {
	if report.Buckets != nil {
		buckets := anonymity.BucketMap(report.Buckets)
		sb.WriteString(w.header.Sprint("Password Hash Records :"))
		sb.WriteString("\n")
		for _, prefix := range buckets.Prefixes() {
			fmt.Fprintf(sb, "\t'%s' -> %d\n", w.prefix.Sprint(prefix), buckets[prefix])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "K-Anonymity achieved: %s\n", w.value.Sprint(report.KAnonymity))
}

// writeCompare writes one line per digest and the selected best digest.
func (w *TextWriter) writeCompare(sb *strings.Builder, report *model.Report) {
	for _, s := range report.Digests {
		fmt.Fprintf(sb, "Digest %s achieved %s-anonymity\n", w.name.Sprint(s.Digest), w.value.Sprint(s.KAnonymity))
	}
	if report.Best != nil {
		fmt.Fprintf(sb, "Best K-Anonymity achieved: %s for Digest %s\n",
			w.value.Sprint(report.Best.KAnonymity), w.name.Sprint(report.Best.Digest))
	}
}

// writeSweep writes one line per truncation length and the average.
func (w *TextWriter) writeSweep(sb *strings.Builder, report *model.Report) {
	for _, s := range report.Lengths {
		fmt.Fprintf(sb, "First %s Hash bits achieved %s-anonymity\n",
			w.name.Sprint(s.FirstBits), w.value.Sprint(s.KAnonymity))
	}
	if report.HasAverage() {
		fmt.Fprintf(sb, "Average K-anonymity achieved: %s for Digest %s\n",
			w.value.Sprint(*report.Average), w.name.Sprint(report.Digest))
		return
	}
	fmt.Fprintf(sb, "Average K-anonymity undefined for Digest %s: %s\n",
		w.name.Sprint(report.Digest),
		w.caution.Sprint("fewer than two leading truncation lengths achieved more than 1-anonymity"))
}

// writeMatrix writes the sweep table and the best digest per length.
func (w *TextWriter) writeMatrix(sb *strings.Builder, report *model.Report) {
	table := uitable.New()
	table.AddRow(
		w.header.Sprint("FIRST BITS"),
		w.header.Sprint("DIGEST"),
		w.header.Sprint("K-ANONYMITY"),
		w.header.Sprint("IMPACT"),
	)
	for _, e := range report.Entries {
		table.AddRow(
			strconv.Itoa(e.FirstBits),
			e.Digest.String(),
			w.printer.Sprintf("%d", e.KAnonymity),
			w.printer.Sprintf("%d", e.AnonymityImpact),
		)
	}
	sb.WriteString(table.String())
	sb.WriteString("\n\n")

	for _, e := range anonymity.BestPerLength(report.Entries) {
		fmt.Fprintf(sb, "First %s Hash bits: best Digest %s achieved %s-anonymity\n",
			w.name.Sprint(e.FirstBits), w.name.Sprint(e.Digest), w.value.Sprint(e.KAnonymity))
	}
}
