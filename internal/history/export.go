package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const csvHeader = "Date;Cle;MAC;Expiration"

// ExportCSV writes the full, unfiltered history to
// <dir>/VDP_Licenses_<YYYY-MM-DD>.csv: semicolon-delimited rows, every field
// double-quoted, one header row. No file is produced when the history is
// empty; the returned path is empty in that case.
//
// The row format is pinned by the legacy export consumers; encoding/csv does
// not force-quote fields, so rows are formatted directly.
func (h *History) ExportCSV(dir string) (string, error) {
	if len(h.records) == 0 {
		return "", nil
	}

	rows := make([]string, 0, len(h.records)+1)
	rows = append(rows, csvHeader)
	for _, r := range h.records {
		rows = append(rows, strings.Join([]string{
			quote(r.Timestamp),
			quote(r.LicenseKey),
			quote(r.MacAddress),
			quote(r.ExpirationDate),
		}, ";"))
	}

	name := fmt.Sprintf("VDP_Licenses_%s.csv", h.now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV export: %w", err)
	}

	return path, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
