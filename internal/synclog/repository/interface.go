package repository

import synclogdomain "propcrm-backend/internal/synclog/domain"

// SyncLogRepository persists sync log entries.
type SyncLogRepository interface {
	Create(entry *synclogdomain.SyncLog) error
	// Update writes the terminal status and counts back to an entry.
	Update(entry *synclogdomain.SyncLog) error
	// LatestCompleted returns the most recent completed entry for the tuple, or
	// nil when no sync has completed yet (full sync).
	LatestCompleted(userID, provider, syncType string) (*synclogdomain.SyncLog, error)
	// HasActive reports whether a non-terminal entry exists for the tuple.
	HasActive(userID, provider, syncType string) (bool, error)
	Recent(userID, provider string, limit int) ([]*synclogdomain.SyncLog, error)
}
