package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// Contact is the local mirror of a remote CRM contact. HubSpotID is the
// reconciliation key: exactly one row per remote identifier.
type Contact struct {
	ID             string            `json:"id" gorm:"primaryKey"`
	HubSpotID      string            `json:"hubspot_id" gorm:"uniqueIndex;not null"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Phone          string            `json:"phone"`
	Company        string            `json:"company"`
	JobTitle       string            `json:"job_title"`
	LifecycleStage string            `json:"lifecycle_stage"`
	LeadStatus     string            `json:"lead_status"`
	LastActivityAt *time.Time        `json:"last_activity_at"`
	Properties     datatypes.JSONMap `json:"properties"`
	SyncStatus     string            `json:"sync_status"`
	LastSyncAt     *time.Time        `json:"last_sync_at"`
	SyncError      string            `json:"sync_error"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
