package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/passprivacy/internal/model"
)

// AnonymitiesHeader is the header row of the sweep CSV.
var AnonymitiesHeader = []string{"first_bits", "digest", "k_anonymity_achieved", "anonymity_impact"}

// WriteAnonymities writes entries as CSV, header first.
func WriteAnonymities(w io.Writer, entries []model.AnonymityEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(AnonymitiesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.FirstBits),
			e.Digest.String(),
			strconv.Itoa(e.KAnonymity),
			strconv.Itoa(e.AnonymityImpact),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteAnonymitiesFile writes entries to path, creating parent
// directories as needed.
func WriteAnonymitiesFile(path string, entries []model.AnonymityEntry) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteAnonymities(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
