package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	contactdomain "propcrm-backend/internal/contact/domain"
	contactrepo "propcrm-backend/internal/contact/repository"
	integrationdomain "propcrm-backend/internal/integration/domain"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	synclogrepo "propcrm-backend/internal/synclog/repository"
	"propcrm-backend/pkg/config"
	"propcrm-backend/pkg/hubspot"

	"gorm.io/datatypes"
)

// ErrSyncInProgress is returned when a non-terminal sync log already exists for
// the (user, provider, type) tuple.
var ErrSyncInProgress = errors.New("sync already in progress")

const pageDelay = 100 * time.Millisecond

// contactUsecase implements ContactUsecase interface
type contactUsecase struct {
	contactRepo   contactrepo.ContactRepository
	syncLogRepo   synclogrepo.SyncLogRepository
	sourceFactory ContactSourceFactory
	pageSize      int
}

// NewContactUsecase creates a new instance of contactUsecase
func NewContactUsecase(contactRepo contactrepo.ContactRepository, syncLogRepo synclogrepo.SyncLogRepository, sourceFactory ContactSourceFactory, cfg *config.Config) ContactUsecase {
	pageSize := 100
	if cfg != nil && cfg.SyncPageSize > 0 {
		pageSize = cfg.SyncPageSize
	}
	return &contactUsecase{
		contactRepo:   contactRepo,
		syncLogRepo:   syncLogRepo,
		sourceFactory: sourceFactory,
		pageSize:      pageSize,
	}
}

// SyncContacts pulls all remote contacts modified since the last completed sync
// and reconciles them against local storage.
//
// The duplicate-run guard is a best-effort check: it is not atomic with the
// subsequent log insert, so two simultaneous requests can both pass. The
// per-record upsert keeps that race from corrupting contact rows.
func (u *contactUsecase) SyncContacts(ctx context.Context, userID string) (*SyncResult, error) {
	source, err := u.sourceFactory(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := u.syncLogRepo.HasActive(userID, integrationdomain.ProviderHubSpot, synclogdomain.SyncTypeContacts)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrSyncInProgress
	}

	entry := &synclogdomain.SyncLog{
		UserID:   userID,
		Provider: integrationdomain.ProviderHubSpot,
		SyncType: synclogdomain.SyncTypeContacts,
		Status:   synclogdomain.StatusStarted,
	}
	if err := u.syncLogRepo.Create(entry); err != nil {
		return nil, err
	}

	// Delta watermark: the completion time of the last successful sync. Zero
	// means full sync.
	var watermark time.Time
	if last, err := u.syncLogRepo.LatestCompleted(userID, integrationdomain.ProviderHubSpot, synclogdomain.SyncTypeContacts); err == nil && last != nil && last.CompletedAt != nil {
		watermark = *last.CompletedAt
	}

	result := &SyncResult{Success: true, SyncID: entry.ID, Errors: []string{}}

	after := ""
	for {
		page, err := source.ListContacts(ctx, u.pageSize, after)
		if err != nil {
			// A page-fetch failure aborts the whole run; per-record failures
			// below do not.
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("Batch error: %v", err))
			break
		}

		if len(page.Results) == 0 {
			break
		}

		u.processPage(page.Results, watermark, result)

		after = page.NextAfter()
		if after == "" {
			break
		}

		// Courtesy throttle between pages, not a real rate limiter.
		time.Sleep(pageDelay)
	}

	now := time.Now()
	entry.Status = synclogdomain.StatusCompleted
	if !result.Success {
		entry.Status = synclogdomain.StatusFailed
	}
	entry.RecordsProcessed = result.Created + result.Updated
	entry.RecordsCreated = result.Created
	entry.RecordsUpdated = result.Updated
	entry.RecordsFailed = result.Failed
	entry.ErrorMessages = datatypes.NewJSONSlice(synclogdomain.CapErrors(result.Errors))
	entry.CompletedAt = &now
	if err := u.syncLogRepo.Update(entry); err != nil {
		return nil, err
	}

	return result, nil
}

func (u *contactUsecase) processPage(remotes []hubspot.Contact, watermark time.Time, result *SyncResult) {
	for i := range remotes {
		remote := &remotes[i]

		// Delta filter: skip records not modified since the watermark. This is
		// an optimization only; the upsert below is idempotent either way.
		if !watermark.IsZero() {
			if modified := remote.LastModified(); !modified.IsZero() && !modified.After(watermark) {
				continue
			}
		}

		if err := u.reconcile(remote, result); err != nil {
			result.Failed++
			if len(result.Errors) < synclogdomain.MaxStoredErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("Failed to sync contact %s: %v", remote.ID, err))
			}
			continue
		}
	}
}

// reconcile writes one remote contact into local storage, updating in place
// when the hubspot_id already exists. The existence lookup is only for the
// created/updated tally; the write itself is a conflict-clause upsert.
func (u *contactUsecase) reconcile(remote *hubspot.Contact, result *SyncResult) error {
	existing, err := u.contactRepo.FindByHubSpotID(remote.ID)
	if err != nil {
		return err
	}

	contact := mapRemoteContact(remote)
	if existing != nil {
		contact.ID = existing.ID
		contact.CreatedAt = existing.CreatedAt
	}

	if err := u.contactRepo.Upsert(contact); err != nil {
		return err
	}

	if existing != nil {
		result.Updated++
	} else {
		result.Created++
	}
	return nil
}

func (u *contactUsecase) SyncStatus(userID string) (*SyncStatus, error) {
	recent, err := u.syncLogRepo.Recent(userID, integrationdomain.ProviderHubSpot, 10)
	if err != nil {
		return nil, err
	}

	status := &SyncStatus{RecentSyncs: recent}
	for _, entry := range recent {
		if !entry.Terminal() {
			status.InProgress = true
		}
		if status.LastSync == nil && entry.Status == synclogdomain.StatusCompleted {
			status.LastSync = entry.CompletedAt
		}
	}
	return status, nil
}

func (u *contactUsecase) ListContacts(limit, offset int, search string) ([]*contactdomain.Contact, int64, error) {
	return u.contactRepo.List(limit, offset, search)
}

func mapRemoteContact(remote *hubspot.Contact) *contactdomain.Contact {
	now := time.Now()

	properties := datatypes.JSONMap{}
	for key, value := range remote.Properties {
		properties[key] = value
	}

	contact := &contactdomain.Contact{
		HubSpotID:      remote.ID,
		Email:          remote.Properties["email"],
		FirstName:      remote.Properties["firstname"],
		LastName:       remote.Properties["lastname"],
		Phone:          remote.Properties["phone"],
		Company:        remote.Properties["company"],
		JobTitle:       remote.Properties["jobtitle"],
		LifecycleStage: remote.Properties["lifecyclestage"],
		LeadStatus:     remote.Properties["hs_lead_status"],
		Properties:     properties,
		SyncStatus:     contactdomain.SyncStatusSynced,
		LastSyncAt:     &now,
		SyncError:      "",
	}

	if modified := remote.LastModified(); !modified.IsZero() {
		contact.LastActivityAt = &modified
	}

	return contact
}
