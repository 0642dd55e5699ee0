package models

import "time"

// AuditEntry represents an audit log entry
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	ClientIP   string    `json:"client_ip"`
	UserAgent  string    `json:"user_agent,omitempty"`
	APIKeySeen bool      `json:"api_key_seen"`
	Success    bool      `json:"success"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	Details    string    `json:"details,omitempty"` // JSON
}

// Audit action constants
const (
	ActionLicenseIssue = "license_issue"
	ActionLicenseList  = "license_list"
	ActionAuthRejected = "auth_rejected"
)
