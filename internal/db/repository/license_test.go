package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vdpcore/licensed/internal/db"
	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/models"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "licenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database))
	return database
}

func TestLicenseRepositoryAppendAndList(t *testing.T) {
	repo := NewLicenseRepository(newTestDB(t).DB)

	a := &models.LicenseRecord{
		Success:        true,
		LicenseKey:     "VDP-AAAA1111-GLB-1",
		ExpirationDate: "2024-03-31",
		MacAddress:     license.GlobalMac,
		CreatedAt:      "2024-03-01T10:30:00Z",
		Message:        "Licence générée avec succès",
	}
	b := &models.LicenseRecord{
		Success:        true,
		LicenseKey:     "VDP-BBBB2222-AABBCC-2",
		ExpirationDate: "2024-04-30",
		MacAddress:     "AA:BB:CC:DD:EE:FF",
		CreatedAt:      "2024-03-01T11:00:00Z",
		Message:        "Licence générée avec succès",
	}

	require.NoError(t, repo.Append(a))
	require.NoError(t, repo.Append(b))

	records, err := repo.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, *a, records[0], "issuance order preserved")
	assert.Equal(t, *b, records[1])
}

func TestLicenseRepositoryAcceptsDuplicateKeys(t *testing.T) {
	repo := NewLicenseRepository(newTestDB(t).DB)

	record := &models.LicenseRecord{
		Success:        true,
		LicenseKey:     "VDP-AAAA1111-GLB-1",
		ExpirationDate: "2024-03-31",
		MacAddress:     license.GlobalMac,
		CreatedAt:      "2024-03-01T10:30:00Z",
	}

	// Key uniqueness is not guaranteed by the derivation rule; the store
	// must not reject collisions
	require.NoError(t, repo.Append(record))
	require.NoError(t, repo.Append(record))

	records, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLicenseRepositoryCount(t *testing.T) {
	repo := NewLicenseRepository(newTestDB(t).DB)

	total, hardwareBound, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, hardwareBound)

	require.NoError(t, repo.Append(&models.LicenseRecord{LicenseKey: "k1", MacAddress: "AA1122", ExpirationDate: "2024-03-31", CreatedAt: "2024-03-01T10:30:00Z"}))
	require.NoError(t, repo.Append(&models.LicenseRecord{LicenseKey: "k2", MacAddress: license.GlobalMac, ExpirationDate: "2024-03-31", CreatedAt: "2024-03-01T10:30:00Z"}))

	total, hardwareBound, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, hardwareBound)
}

func TestAuditRepository(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t).DB)

	entry := &models.AuditEntry{
		Action:     models.ActionLicenseIssue,
		ClientIP:   "127.0.0.1",
		APIKeySeen: true,
		Success:    true,
		Details:    `{"license_key":"VDP-AAAA1111-GLB-1"}`,
	}
	require.NoError(t, repo.Record(entry))
	assert.NotZero(t, entry.ID)

	require.NoError(t, repo.Record(&models.AuditEntry{
		Action:   models.ActionAuthRejected,
		ClientIP: "127.0.0.1",
		Success:  false,
		ErrorMsg: "Clé API invalide.",
	}))

	all, err := repo.List("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	issues, err := repo.List(models.ActionLicenseIssue, 10)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.True(t, issues[0].APIKeySeen)
	assert.Equal(t, `{"license_key":"VDP-AAAA1111-GLB-1"}`, issues[0].Details)
}
