package usecase

import (
	"context"
	"time"

	contactdomain "propcrm-backend/internal/contact/domain"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	"propcrm-backend/pkg/hubspot"
)

// ContactSource is one page-fetching view of the CRM client.
type ContactSource interface {
	ListContacts(ctx context.Context, limit int, after string, properties ...string) (*hubspot.ContactPage, error)
}

// ContactSourceFactory builds a per-user contact source from the user's stored
// credential. It fails when the user has no active CRM connection.
type ContactSourceFactory func(ctx context.Context, userID string) (ContactSource, error)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Success bool     `json:"success"`
	SyncID  string   `json:"syncId"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// SyncStatus is the read-side view of recent sync activity.
type SyncStatus struct {
	LastSync    *time.Time               `json:"lastSync"`
	InProgress  bool                     `json:"inProgress"`
	RecentSyncs []*synclogdomain.SyncLog `json:"recentSyncs"`
}

// ContactUsecase defines the interface for contact use cases
type ContactUsecase interface {
	SyncContacts(ctx context.Context, userID string) (*SyncResult, error)
	SyncStatus(userID string) (*SyncStatus, error)
	ListContacts(limit, offset int, search string) ([]*contactdomain.Contact, int64, error)
}
