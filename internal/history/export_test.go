package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVEmptyHistoryProducesNoFile(t *testing.T) {
	h := newTestHistory()
	dir := t.TempDir()

	path, err := h.ExportCSV(dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportCSV(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(globalRecord())
	h.RecordSuccess(boundRecord())
	dir := t.TempDir()

	path, err := h.ExportCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "VDP_Licenses_2024-03-01.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per record")

	assert.Equal(t, "Date;Cle;MAC;Expiration", lines[0])
	// Newest first, every field double-quoted
	assert.Equal(t, `"01/03/2024 14:45:00";"VDP-BBBB2222-AA1122-2";"AA1122";"2024-04-30"`, lines[1])
	assert.Equal(t, `"01/03/2024 14:45:00";"VDP-AAAA1111-GLB-1";"Globale";"2024-03-31"`, lines[2])
}
