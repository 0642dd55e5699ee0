package history

import (
	"strings"
	"time"

	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/models"
)

const clientTimestampLayout = "02/01/2006 15:04:05"

// History is the session-scoped, newest-first list of issued licenses held by
// the operator console. It lives only as long as the console process; records
// are immutable and only append and delete-by-identity are supported.
type History struct {
	records []models.LicenseRecord
	now     func() time.Time
}

// New creates an empty history.
func New() *History {
	return &History{now: time.Now}
}

// RecordSuccess prepends an enriched copy of the record, attaching the
// client-side display timestamp. Returns the enriched record.
func (h *History) RecordSuccess(record models.LicenseRecord) models.LicenseRecord {
	record.Timestamp = h.now().Format(clientTimestampLayout)
	h.records = append([]models.LicenseRecord{record}, h.records...)
	return record
}

// All returns the full history, newest first.
func (h *History) All() []models.LicenseRecord {
	out := make([]models.LicenseRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records held.
func (h *History) Len() int {
	return len(h.records)
}

// Search returns records whose license key or MAC address contains the query,
// case-insensitively. An empty query returns the full history.
func (h *History) Search(query string) []models.LicenseRecord {
	if query == "" {
		return h.All()
	}

	q := strings.ToLower(query)
	var out []models.LicenseRecord
	for _, r := range h.records {
		if strings.Contains(strings.ToLower(r.LicenseKey), q) ||
			strings.Contains(strings.ToLower(r.MacAddress), q) {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes the history.
type Stats struct {
	Total         int
	HardwareBound int
	Global        int
}

// Stats counts records; hardware-bound means a MAC address is present and not
// the global marker.
func (h *History) Stats() Stats {
	var hardwareBound int
	for _, r := range h.records {
		if r.MacAddress != "" && r.MacAddress != license.GlobalMac {
			hardwareBound++
		}
	}
	return Stats{
		Total:         len(h.records),
		HardwareBound: hardwareBound,
		Global:        len(h.records) - hardwareBound,
	}
}

// Delete removes the first record equal to the given one from the underlying
// history. Callers holding a filtered view must resolve a positional index
// back to the record before calling. Returns false when no record matched.
func (h *History) Delete(record models.LicenseRecord) bool {
	for i, r := range h.records {
		if r == record {
			h.records = append(h.records[:i], h.records[i+1:]...)
			return true
		}
	}
	return false
}
