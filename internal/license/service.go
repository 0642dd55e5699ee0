package license

import (
	"fmt"
	"math"
	"time"

	"github.com/vdpcore/licensed/internal/models"
)

// Store records issued licenses. The memory implementation keeps an
// in-process list; the sqlite implementation survives restarts.
type Store interface {
	Append(record *models.LicenseRecord) error
	List() ([]models.LicenseRecord, error)
	Count() (total, hardwareBound int, err error)
}

// AuditSink receives audit entries for issuance activity.
type AuditSink interface {
	Record(entry *models.AuditEntry) error
}

// Issuer validates issuance requests, derives license records and appends them
// to the store.
type Issuer struct {
	store Store
	now   func() time.Time
}

// NewIssuer creates a new issuer backed by the given store.
func NewIssuer(store Store) *Issuer {
	return &Issuer{
		store: store,
		now:   time.Now,
	}
}

// Issue validates the request, derives a new license record and appends it to
// the store. durationDays is a pointer so a missing field can be told apart
// from zero; zero is rejected the same way as missing. Fractional durations
// are truncated. No state is committed on any failure path.
func (s *Issuer) Issue(macAddress string, durationDays *float64) (*models.LicenseRecord, error) {
	if durationDays == nil || *durationDays == 0 || math.IsNaN(*durationDays) {
		return nil, ErrDurationRequired
	}
	days := int(*durationDays)

	key, err := DeriveKey(macAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to derive license key: %w", err)
	}

	storedMac := macAddress
	if storedMac == "" {
		storedMac = GlobalMac
	}

	now := s.now()
	record := &models.LicenseRecord{
		Success:        true,
		LicenseKey:     key,
		ExpirationDate: ExpirationDate(now, days),
		MacAddress:     storedMac,
		CreatedAt:      now.UTC().Format(time.RFC3339),
		Message:        "Licence générée avec succès",
	}

	if err := s.store.Append(record); err != nil {
		return nil, fmt.Errorf("failed to record license: %w", err)
	}

	return record, nil
}

// List returns every issued record in issuance order.
func (s *Issuer) List() ([]models.LicenseRecord, error) {
	return s.store.List()
}

// Stats summarizes the issued records.
type Stats struct {
	Total         int `json:"total"`
	HardwareBound int `json:"hardwareBound"`
	Global        int `json:"global"`
}

// Stats counts issued records; hardware-bound means a MAC address is present
// and not the global marker.
func (s *Issuer) Stats() (Stats, error) {
	total, hardwareBound, err := s.store.Count()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Total:         total,
		HardwareBound: hardwareBound,
		Global:        total - hardwareBound,
	}, nil
}
