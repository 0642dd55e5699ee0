package license

import (
	"log/slog"

	"github.com/vdpcore/licensed/internal/models"
)

// LogAudit writes audit entries to the structured log. Used when the server
// runs on the in-memory store and has no audit table to write to.
type LogAudit struct {
	logger *slog.Logger
}

// NewLogAudit creates a log-backed audit sink.
func NewLogAudit(logger *slog.Logger) *LogAudit {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogAudit{logger: logger}
}

// Record logs the entry.
func (a *LogAudit) Record(entry *models.AuditEntry) error {
	a.logger.Info("audit",
		slog.String("action", entry.Action),
		slog.String("client_ip", entry.ClientIP),
		slog.Bool("api_key_seen", entry.APIKeySeen),
		slog.Bool("success", entry.Success),
		slog.String("error", entry.ErrorMsg),
		slog.String("details", entry.Details),
	)
	return nil
}
