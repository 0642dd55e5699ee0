package db

import (
	"database/sql"
	"fmt"
)

// RunMigrations executes all database migrations
func RunMigrations(db *DB) error {
	// Check if schema_version table exists
	var tableExists bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	}

	if !tableExists {
		// First time initialization
		if err := initializeSchema(db); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		return nil
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow(`
		SELECT version FROM schema_version
		ORDER BY applied_at DESC LIMIT 1
	`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Currently only version 1 exists
	if currentVersion < 1 {
		return fmt.Errorf("invalid schema version: %d", currentVersion)
	}

	return nil
}

// initializeSchema creates all tables for a new database
func initializeSchema(db *DB) error {
	tx, err := db.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := execSQL(tx, schemaVersionTable); err != nil {
		return err
	}

	if err := execSQL(tx, licensesTable); err != nil {
		return err
	}
	if err := execSQL(tx, licensesIndexes); err != nil {
		return err
	}

	if err := execSQL(tx, auditLogsTable); err != nil {
		return err
	}
	if err := execSQL(tx, auditLogsIndexes); err != nil {
		return err
	}

	if err := execSQL(tx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
		return err
	}

	return tx.Commit()
}

// execSQL executes a SQL statement
func execSQL(tx *sql.Tx, query string) error {
	_, err := tx.Exec(query)
	return err
}

// Schema definitions
const (
	schemaVersionTable = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL,
    applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	// license_key carries no UNIQUE constraint: the derivation rule does not
	// guarantee uniqueness and duplicate keys are accepted.
	licensesTable = `
CREATE TABLE licenses (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    license_key     TEXT NOT NULL,
    expiration_date TEXT NOT NULL,
    mac_address     TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    message         TEXT,
    issued_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	licensesIndexes = `
CREATE INDEX idx_licenses_key ON licenses(license_key);
CREATE INDEX idx_licenses_mac ON licenses(mac_address);
CREATE INDEX idx_licenses_issued_at ON licenses(issued_at)`

	auditLogsTable = `
CREATE TABLE audit_logs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    action       TEXT NOT NULL,
    client_ip    TEXT NOT NULL,
    user_agent   TEXT,
    api_key_seen INTEGER NOT NULL DEFAULT 0,
    success      INTEGER NOT NULL,
    error_msg    TEXT,
    details      TEXT
)`

	auditLogsIndexes = `
CREATE INDEX idx_audit_timestamp ON audit_logs(timestamp);
CREATE INDEX idx_audit_action ON audit_logs(action);
CREATE INDEX idx_audit_success ON audit_logs(success)`
)
