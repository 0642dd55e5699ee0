package repository

import (
	"database/sql"
	"fmt"

	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/models"
)

// LicenseRepository handles license record data access
type LicenseRepository struct {
	db *sql.DB
}

// NewLicenseRepository creates a new license repository
func NewLicenseRepository(db *sql.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// Append inserts a new license record
func (r *LicenseRepository) Append(record *models.LicenseRecord) error {
	query := `
		INSERT INTO licenses (license_key, expiration_date, mac_address, created_at, message)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.LicenseKey,
		record.ExpirationDate,
		record.MacAddress,
		record.CreatedAt,
		record.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to create license record: %w", err)
	}

	return nil
}

// List returns all license records in issuance order
func (r *LicenseRepository) List() ([]models.LicenseRecord, error) {
	query := `
		SELECT license_key, expiration_date, mac_address, created_at, message
		FROM licenses
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list licenses: %w", err)
	}
	defer rows.Close()

	var records []models.LicenseRecord

	for rows.Next() {
		record := models.LicenseRecord{Success: true}
		err := rows.Scan(
			&record.LicenseKey,
			&record.ExpirationDate,
			&record.MacAddress,
			&record.CreatedAt,
			&record.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan license: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Count returns the total number of records and how many are hardware-bound
func (r *LicenseRepository) Count() (total, hardwareBound int, err error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN mac_address != '' AND mac_address != ? THEN 1 ELSE 0 END), 0)
		FROM licenses
	`

	err = r.db.QueryRow(query, license.GlobalMac).Scan(&total, &hardwareBound)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count licenses: %w", err)
	}

	return total, hardwareBound, nil
}
