package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/model"
)

var testTime = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestReport(mode model.Mode) *model.Report {
	r := model.NewReport(mode, "datasets/passwords.csv", 7)
	r.CreatedAt = testTime
	return r
}

func singleReport(buckets map[string]int) *model.Report {
	r := newTestReport(model.ModeSingle)
	r.FirstBits = 1
	r.Digest = digest.SHA256
	r.KAnonymity = 2
	r.Buckets = buckets
	return r
}

func compareReport() *model.Report {
	r := newTestReport(model.ModeCompare)
	r.FirstBits = 1
	r.Digests = []model.DigestScore{
		{Digest: digest.SHA1, KAnonymity: 1},
		{Digest: digest.SHA256, KAnonymity: 3},
		{Digest: digest.MD2, KAnonymity: 3},
	}
	r.Best = &model.DigestScore{Digest: digest.SHA256, KAnonymity: 3}
	return r
}

func sweepReport(avg *int) *model.Report {
	r := newTestReport(model.ModeSweep)
	r.Digest = digest.WHIRLPOOL
	r.MaxFirstBits = 3
	r.Lengths = []model.LengthScore{
		{FirstBits: 1, KAnonymity: 4},
		{FirstBits: 2, KAnonymity: 2},
		{FirstBits: 3, KAnonymity: 1},
	}
	r.Average = avg
	return r
}

func matrixReport() *model.Report {
	r := newTestReport(model.ModeMatrix)
	r.MaxFirstBits = 2
	r.Entries = []model.AnonymityEntry{
		model.NewAnonymityEntry(1, digest.SHA1, 2),
		model.NewAnonymityEntry(1, digest.SHA256, 3),
		model.NewAnonymityEntry(2, digest.SHA1, 1),
		model.NewAnonymityEntry(2, digest.SHA256, 1),
	}
	return r
}

func intPtr(v int) *int { return &v }

func writeText(t *testing.T, r *model.Report) string {
	t.Helper()

	var buf bytes.Buffer
	n, err := NewTextWriter(&buf, WithColor(false)).Write(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}
	return buf.String()
}

// TestTextWriter tests the console report writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report *model.Report
		want   []string
		absent []string
	}{
		{
			name:   "single mode prints the achieved k",
			report: singleReport(nil),
			want:   []string{"Analysed 7 passwords from datasets/passwords.csv", "K-Anonymity achieved: 2\n"},
			absent: []string{"Password Hash Records"},
		},
		{
			name:   "single mode with buckets prints sorted records",
			report: singleReport(map[string]int{"b": 2, "a": 5}),
			want:   []string{"Password Hash Records :\n\t'a' -> 5\n\t'b' -> 2\n\nK-Anonymity achieved: 2"},
		},
		{
			name:   "compare mode prints each digest and the best",
			report: compareReport(),
			want: []string{
				"Digest SHA1 achieved 1-anonymity\n",
				"Digest MD2 achieved 3-anonymity\n",
				"Best K-Anonymity achieved: 3 for Digest SHA256\n",
			},
		},
		{
			name:   "sweep mode prints each length and the average",
			report: sweepReport(intPtr(2)),
			want: []string{
				"First 1 Hash bits achieved 4-anonymity\n",
				"First 3 Hash bits achieved 1-anonymity\n",
				"Average K-anonymity achieved: 2 for Digest WHIRLPOOL\n",
			},
		},
		{
			name:   "sweep mode without average says undefined",
			report: sweepReport(nil),
			want:   []string{"Average K-anonymity undefined for Digest WHIRLPOOL"},
			absent: []string{"Average K-anonymity achieved"},
		},
		{
			name:   "matrix mode prints the table and best per length",
			report: matrixReport(),
			want: []string{
				"FIRST BITS",
				"ANONYMITY",
				"First 1 Hash bits: best Digest SHA256 achieved 3-anonymity",
				"First 2 Hash bits: best Digest SHA1 achieved 1-anonymity",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := writeText(t, tt.report)
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestTextWriterNoColor(t *testing.T) {
	t.Parallel()

	if output := writeText(t, compareReport()); strings.Contains(output, "\x1b[") {
		t.Errorf("expected no ANSI escapes, got %q", output)
	}
}

func TestTextWriterEmptyDataset(t *testing.T) {
	t.Parallel()

	r := singleReport(nil)
	r.PasswordCount = 0
	r.KAnonymity = 0
	if output := writeText(t, r); !strings.Contains(output, "The dataset is empty") {
		t.Errorf("expected empty dataset notice, got:\n%s", output)
	}
}

func TestTextWriterGroupsLargeCounts(t *testing.T) {
	t.Parallel()

	r := singleReport(nil)
	r.PasswordCount = 1234567
	if output := writeText(t, r); !strings.Contains(output, "Analysed 1,234,567 passwords") {
		t.Errorf("expected grouped count, got:\n%s", output)
	}
}

func TestTextWriterLanguage(t *testing.T) {
	t.Parallel()

	r := singleReport(nil)
	r.PasswordCount = 1234567

	tests := []struct {
		name string
		tag  language.Tag
		want string
	}{
		{name: "unset keeps English", tag: language.Und, want: "Analysed 1,234,567 passwords"},
		{name: "german", tag: language.German, want: "Analysed 1.234.567 passwords"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := NewWriter(FormatText, &buf, Options{Language: tt.tag})
			if _, err := w.Write(r); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

// TestJSONWriter tests the JSON report writers.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes compact JSON by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(compareReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(output, "\n") {
			t.Errorf("expected single-line JSON, got %q", output)
		}

		var decoded model.Report
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Mode != model.ModeCompare || decoded.Best.Digest != digest.SHA256 {
			t.Errorf("unexpected decoded report: %+v", decoded)
		}
	})

	t.Run("WithIndent pretty prints", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(compareReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"mode\": \"compare\"") {
			t.Errorf("expected tab indentation, got:\n%s", buf.String())
		}
	})

	t.Run("digest names are serialized as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(matrixReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"digest":"SHA256"`) {
			t.Errorf("expected digest name, got %s", buf.String())
		}
	})

	t.Run("WriteValue writes arbitrary values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteValue([]string{"SHA1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[\"SHA1\"]\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestFullJSONWriter tests the metadata wrapper.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "v1.2.3", WithPrettyPrint()).Write(sweepReport(intPtr(2))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Version string       `json:"version"`
		Summary int          `json:"summary"`
		Report  model.Report `json:"report"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Version != "v1.2.3" || decoded.Summary != 2 {
		t.Errorf("unexpected wrapper: %+v", decoded)
	}
	if decoded.Report.Average == nil || *decoded.Report.Average != 2 {
		t.Errorf("expected average 2, got %v", decoded.Report.Average)
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report *model.Report
		want   []string
		absent []string
	}{
		{
			name:   "header table",
			report: compareReport(),
			want:   []string{"# Password Privacy Report", "datasets/passwords.csv", "Compare", "passprivacy"},
		},
		{
			name:   "single mode without buckets has no chart",
			report: singleReport(nil),
			want:   []string{"## K-Anonymity", "K-Anonymity achieved: **2**", "[!WARNING]"},
			absent: []string{"```mermaid"},
		},
		{
			name:   "single mode with buckets charts the size distribution",
			report: singleReport(map[string]int{"a": 2, "b": 2, "c": 3}),
			want:   []string{"## Bucket Sizes", "```mermaid", "Bucket Size Distribution", "size 2", "size 3"},
			absent: []string{"'a'"},
		},
		{
			name:   "compare mode highlights the best digest",
			report: compareReport(),
			want:   []string{"## Digest Comparison", "**SHA256**", "Best K-Anonymity achieved: 3 for Digest SHA256", "[!IMPORTANT]"},
		},
		{
			name:   "sweep mode with average",
			report: sweepReport(intPtr(2)),
			want:   []string{"## Truncation Sweep", "Average K-anonymity achieved: 2 for Digest WHIRLPOOL"},
		},
		{
			name:   "sweep mode without average",
			report: sweepReport(nil),
			want:   []string{"[!NOTE]", "The average is undefined"},
		},
		{
			name:   "matrix mode lists best per length and all entries",
			report: matrixReport(),
			want:   []string{"## Best Digest per Length", "## All Entries", "Anonymity Impact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if _, err := NewMarkdownWriter(&buf).Write(tt.report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestMarkdownWriterAlerts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		k    int
		want string
	}{
		{k: 1, want: "[!CAUTION]"},
		{k: 3, want: "[!WARNING]"},
		{k: 10, want: "[!TIP]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			r := singleReport(nil)
			r.KAnonymity = tt.k
			var buf bytes.Buffer
			if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s for k=%d, got:\n%s", tt.want, tt.k, buf.String())
			}
		})
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tests := []struct {
		format Format
		check  func(Writer) bool
	}{
		{FormatText, func(w Writer) bool { _, ok := w.(*TextWriter); return ok }},
		{FormatJSON, func(w Writer) bool { _, ok := w.(*FullJSONWriter); return ok }},
		{FormatMarkdown, func(w Writer) bool { _, ok := w.(*MarkdownWriter); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()
			if w := NewWriter(tt.format, &buf, Options{}); !tt.check(w) {
				t.Errorf("unexpected writer type %T", w)
			}
		})
	}
}
