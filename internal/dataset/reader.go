package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// PasswordColumn is the header name of the password column.
const PasswordColumn = "password"

// Dataset errors.
var (
	// ErrMissingPasswordColumn is returned when the header has no password column.
	ErrMissingPasswordColumn = errors.New(`missing "password" column in header`)

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("dataset has no header row")
)

// ReadPasswords reads every password from CSV data.
func ReadPasswords(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	column := -1
	for i, name := range header {
		// The first header may carry a UTF-8 byte order mark.
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == PasswordColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, ErrMissingPasswordColumn
	}

	var passwords []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		passwords = append(passwords, record[column])
	}
	return passwords, nil
}

// ReadPasswordsFile reads every password from the CSV file at path.
func ReadPasswordsFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	passwords, err := ReadPasswords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return passwords, nil
}
