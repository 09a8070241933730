package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	SyncTypeContacts   = "contacts"
	SyncTypeProperties = "properties"
)

// MaxStoredErrors caps the error list persisted with a sync log entry.
const MaxStoredErrors = 100

// SyncLog records one sync or import attempt. Created at start, mutated once at
// completion, immutable afterward.
type SyncLog struct {
	ID               string                      `json:"id" gorm:"primaryKey"`
	UserID           string                      `json:"user_id" gorm:"index:idx_sync_logs_user;not null"`
	Provider         string                      `json:"provider" gorm:"index:idx_sync_logs_user;not null"`
	SyncType         string                      `json:"sync_type" gorm:"not null"`
	Status           string                      `json:"status" gorm:"not null"`
	RecordsProcessed int                         `json:"records_processed"`
	RecordsCreated   int                         `json:"records_created"`
	RecordsUpdated   int                         `json:"records_updated"`
	RecordsFailed    int                         `json:"records_failed"`
	ErrorMessages    datatypes.JSONSlice[string] `json:"error_messages"`
	Metadata         datatypes.JSONMap           `json:"metadata"`
	StartedAt        time.Time                   `json:"started_at"`
	CompletedAt      *time.Time                  `json:"completed_at"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// Terminal reports whether the entry has reached a final status.
func (l *SyncLog) Terminal() bool {
	return l.Status == StatusCompleted || l.Status == StatusFailed
}

// CapErrors truncates an error list to the persisted ceiling.
func CapErrors(errs []string) []string {
	if len(errs) > MaxStoredErrors {
		return errs[:MaxStoredErrors]
	}
	return errs
}
