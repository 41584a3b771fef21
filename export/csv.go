package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteCSV writes records into dir under filename and returns the
// full path. An empty filename picks a timestamped one; the .csv
// extension is enforced either way. The header row is always written,
// even for zero records, so downstream tooling sees a stable schema.
func WriteCSV(records []Record, dir, filename string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	if filename == "" {
		filename = "filtered_emails_" + now.Format("20060102_150405")
	}
	if !strings.HasSuffix(filename, ".csv") {
		filename += ".csv"
	}
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns()); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return "", fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}
	return path, nil
}
