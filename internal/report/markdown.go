package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/passprivacy/internal/anonymity"
	"github.com/nao1215/passprivacy/internal/model"
)

// weakAnonymity is the k below which the Markdown report warns.
const weakAnonymity = 5

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which provides tables, mermaid charts and GitHub-flavored
// markdown alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	switch report.Mode {
	case model.ModeSingle:
		w.writeSingle(md, report)
	case model.ModeCompare:
		w.writeCompare(md, report)
	case model.ModeSweep:
		w.writeSweep(md, report)
	case model.ModeMatrix:
		w.writeMatrix(md, report)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Password Privacy Report")
	md.PlainText("")

	rows := [][]string{
		{"Dataset", "`" + report.Dataset + "`"},
		{"Passwords", strconv.Itoa(report.PasswordCount)},
		{"Mode", cases.Title(language.English).String(report.Mode.String())},
		{"Date", report.CreatedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if report.Digest.Valid() {
		rows = append(rows, []string{"Digest", report.Digest.String()})
	}
	if report.FirstBits > 0 {
		rows = append(rows, []string{"First Bits", strconv.Itoa(report.FirstBits)})
	}
	if report.MaxFirstBits > 0 {
		rows = append(rows, []string{"Max First Bits", strconv.Itoa(report.MaxFirstBits)})
	}
	if report.ID != "" {
		rows = append(rows, []string{"Run ID", "`" + report.ID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.PasswordCount == 0 {
		md.Note("The dataset is empty. Every k-anonymity is 0.")
		md.PlainText("")
	}
}

// writeAlert writes an alert for the headline k-anonymity.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, k int) {
	switch {
	case k == 0:
		return
	case k == 1:
		md.Cautionf("At least one truncated hash matches a single password (k = %d). That password is identifiable.", k)
	case k < weakAnonymity:
		md.Warningf("Weak anonymity: the smallest bucket holds only %d passwords.", k)
	default:
		md.Tip(fmt.Sprintf("Every truncated hash is shared by at least %d passwords.", k))
	}
	md.PlainText("")
}

// writeSingle writes the achieved k and, in debug mode, the bucket sizes.
func (w *MarkdownWriter) writeSingle(md *markdown.Markdown, report *model.Report) {
	md.H2("K-Anonymity")
	md.PlainText("")
	md.PlainTextf("K-Anonymity achieved: **%d**", report.KAnonymity)
	md.PlainText("")
	w.writeAlert(md, report.KAnonymity)

	if report.Buckets == nil {
		return
	}

	dist := anonymity.BucketMap(report.Buckets).SizeDistribution()
	sizes := lo.Keys(dist)
	slices.Sort(sizes)

	md.H2("Bucket Sizes")
	md.PlainText("")

	rows := make([][]string, 0, len(sizes))
	for _, size := range sizes {
		rows = append(rows, []string{strconv.Itoa(size), strconv.Itoa(dist[size])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Passwords per Bucket", "Buckets"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, sizes, dist)
}

// writePieChart writes a mermaid pie chart of the bucket size distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, sizes []int, dist map[int]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Bucket Size Distribution"),
		piechart.WithShowData(true),
	)
	for _, size := range sizes {
		chart.LabelAndIntValue(fmt.Sprintf("size %d", size), uint64(dist[size])) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeCompare writes the per-digest table and the selected digest.
func (w *MarkdownWriter) writeCompare(md *markdown.Markdown, report *model.Report) {
	md.H2("Digest Comparison")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Digests))
	for _, s := range report.Digests {
		name := s.Digest.String()
		if report.Best != nil && s.Digest == report.Best.Digest {
			name = "**" + name + "**"
		}
		rows = append(rows, []string{name, strconv.Itoa(s.KAnonymity)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Digest", "K-Anonymity"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Best != nil {
		md.Importantf("Best K-Anonymity achieved: %d for Digest %s", report.Best.KAnonymity, report.Best.Digest)
		md.PlainText("")
		w.writeAlert(md, report.Best.KAnonymity)
	}
}

// writeSweep writes the per-length table and the average.
func (w *MarkdownWriter) writeSweep(md *markdown.Markdown, report *model.Report) {
	md.H2("Truncation Sweep")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Lengths))
	for _, s := range report.Lengths {
		rows = append(rows, []string{strconv.Itoa(s.FirstBits), strconv.Itoa(s.KAnonymity)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"First Bits", "K-Anonymity"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasAverage() {
		md.Importantf("Average K-anonymity achieved: %d for Digest %s", *report.Average, report.Digest)
	} else {
		md.Note("The average is undefined: fewer than two leading truncation lengths achieved more than 1-anonymity.")
	}
	md.PlainText("")
}

// writeMatrix writes every entry and the best digest per length.
func (w *MarkdownWriter) writeMatrix(md *markdown.Markdown, report *model.Report) {
	md.H2("Best Digest per Length")
	md.PlainText("")

	best := anonymity.BestPerLength(report.Entries)
	bestRows := make([][]string, 0, len(best))
	for _, e := range best {
		bestRows = append(bestRows, []string{strconv.Itoa(e.FirstBits), e.Digest.String(), strconv.Itoa(e.KAnonymity)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"First Bits", "Digest", "K-Anonymity"},
		Rows:   bestRows,
	})
	md.PlainText("")

	md.H2("All Entries")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.FirstBits),
			e.Digest.String(),
			strconv.Itoa(e.KAnonymity),
			strconv.Itoa(e.AnonymityImpact),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"First Bits", "Digest", "K-Anonymity", "Anonymity Impact"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [passprivacy](https://github.com/nao1215/passprivacy)*")
}
