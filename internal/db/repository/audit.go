package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vdpcore/licensed/internal/models"
)

// AuditRepository handles audit log data access
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record creates a new audit log entry
func (r *AuditRepository) Record(entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (action, client_ip, user_agent, api_key_seen, success, error_msg, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	apiKeySeen := 0
	if entry.APIKeySeen {
		apiKeySeen = 1
	}
	success := 0
	if entry.Success {
		success = 1
	}

	result, err := r.db.Exec(query,
		entry.Action,
		entry.ClientIP,
		entry.UserAgent,
		apiKeySeen,
		success,
		entry.ErrorMsg,
		entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	entry.Timestamp = time.Now()

	return nil
}

// List lists audit logs with an optional action filter
func (r *AuditRepository) List(action string, limit int) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, timestamp, action, client_ip, user_agent, api_key_seen, success, error_msg, details
		FROM audit_logs
	`
	args := []interface{}{}

	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, action)
	}

	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry

	for rows.Next() {
		entry := &models.AuditEntry{}
		var apiKeySeen, success int
		var userAgent, errorMsg, details sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Action,
			&entry.ClientIP,
			&userAgent,
			&apiKeySeen,
			&success,
			&errorMsg,
			&details,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		entry.APIKeySeen = apiKeySeen == 1
		entry.Success = success == 1
		entry.UserAgent = userAgent.String
		entry.ErrorMsg = errorMsg.String
		entry.Details = details.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
