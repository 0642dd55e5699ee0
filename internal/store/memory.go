package store

import (
	"sync"

	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/models"
)

// Memory is the default license store: an in-process, unbounded list that is
// lost on restart. The mutex keeps concurrent requests from corrupting the
// slice; nothing beyond that is promised.
type Memory struct {
	mu      sync.Mutex
	records []models.LicenseRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds a record to the store.
func (m *Memory) Append(record *models.LicenseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, *record)
	return nil
}

// List returns all records in issuance order.
func (m *Memory) List() ([]models.LicenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.LicenseRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Count returns the total number of records and how many are hardware-bound.
func (m *Memory) Count() (total, hardwareBound int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.MacAddress != "" && r.MacAddress != license.GlobalMac {
			hardwareBound++
		}
	}
	return len(m.records), hardwareBound, nil
}
