package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vdpcore/licensed/internal/models"
)

func newTestHistory() *History {
	h := New()
	h.now = func() time.Time {
		return time.Date(2024, 3, 1, 14, 45, 0, 0, time.UTC)
	}
	return h
}

func globalRecord() models.LicenseRecord {
	return models.LicenseRecord{
		Success:        true,
		LicenseKey:     "VDP-AAAA1111-GLB-1",
		MacAddress:     "Globale",
		ExpirationDate: "2024-03-31",
	}
}

func boundRecord() models.LicenseRecord {
	return models.LicenseRecord{
		Success:        true,
		LicenseKey:     "VDP-BBBB2222-AA1122-2",
		MacAddress:     "AA1122",
		ExpirationDate: "2024-04-30",
	}
}

func TestRecordSuccessNewestFirst(t *testing.T) {
	h := newTestHistory()

	a := h.RecordSuccess(globalRecord())
	b := h.RecordSuccess(boundRecord())

	records := h.All()
	require.Len(t, records, 2)
	assert.Equal(t, b, records[0], "newest first")
	assert.Equal(t, a, records[1])
}

func TestRecordSuccessAttachesTimestamp(t *testing.T) {
	h := newTestHistory()

	enriched := h.RecordSuccess(globalRecord())

	assert.Equal(t, "01/03/2024 14:45:00", enriched.Timestamp)
	assert.Equal(t, enriched, h.All()[0])
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(globalRecord())
	h.RecordSuccess(boundRecord())

	assert.Equal(t, h.All(), h.Search(""))
}

func TestSearchCaseInsensitive(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(globalRecord())
	h.RecordSuccess(boundRecord())

	// "glb" matches the global record through its key suffix, but not the
	// literal "Globale" MAC
	results := h.Search("glb")
	require.Len(t, results, 1)
	assert.Equal(t, "VDP-AAAA1111-GLB-1", results[0].LicenseKey)

	// MAC substring, lowercase query against uppercase value
	results = h.Search("aa11")
	require.Len(t, results, 1)
	assert.Equal(t, "AA1122", results[0].MacAddress)

	// Literal MAC marker only matches when actually queried
	results = h.Search("globale")
	require.Len(t, results, 1)
	assert.Equal(t, "Globale", results[0].MacAddress)

	assert.Empty(t, h.Search("zzzz"))
}

func TestStats(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(boundRecord())
	h.RecordSuccess(models.LicenseRecord{LicenseKey: "VDP-CCCC3333-BB3344-3", MacAddress: "BB3344"})
	h.RecordSuccess(globalRecord())

	assert.Equal(t, Stats{Total: 3, HardwareBound: 2, Global: 1}, h.Stats())
}

func TestDeleteByIdentity(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(globalRecord())
	target := h.RecordSuccess(boundRecord())
	h.RecordSuccess(models.LicenseRecord{LicenseKey: "VDP-CCCC3333-BB3344-3", MacAddress: "BB3344"})

	// Resolve through a filtered view, as the console does
	view := h.Search("aa1122")
	require.Len(t, view, 1)
	require.Equal(t, target, view[0])

	assert.True(t, h.Delete(view[0]))
	assert.Equal(t, 2, h.Len())
	assert.Empty(t, h.Search("aa1122"))
}

func TestDeleteMissingRecord(t *testing.T) {
	h := newTestHistory()
	h.RecordSuccess(globalRecord())

	assert.False(t, h.Delete(boundRecord()))
	assert.Equal(t, 1, h.Len())
}

func TestDeleteRemovesSingleInstance(t *testing.T) {
	h := newTestHistory()
	first := h.RecordSuccess(globalRecord())
	h.RecordSuccess(globalRecord())

	assert.True(t, h.Delete(first))
	assert.Equal(t, 1, h.Len(), "only one of two identical records removed")
}
