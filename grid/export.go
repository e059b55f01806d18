package grid

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ExportFilename is the default name of an exported table
const ExportFilename = "SI_table_data.csv"

// ExportCSV renders the table as CSV: one line of header labels, then the
// formatted rows
func ExportCSV(t Table) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	labels := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		labels[i] = h.Label
	}
	if err := w.Write(labels); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.String(), nil
}

// WriteCSV exports the table into dir under ExportFilename and returns the path
func WriteCSV(t Table, dir string) (string, error) {
	data, err := ExportCSV(t)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFilename)
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
