package usecase

import (
	"time"

	contactrepo "propcrm-backend/internal/contact/repository"
	integrationdomain "propcrm-backend/internal/integration/domain"
	propertyrepo "propcrm-backend/internal/property/repository"
	synclogdomain "propcrm-backend/internal/synclog/domain"
	synclogrepo "propcrm-backend/internal/synclog/repository"
)

// Stats is the dashboard summary card payload.
type Stats struct {
	TotalContacts       int64      `json:"totalContacts"`
	TotalProperties     int64      `json:"totalProperties"`
	TotalEstimatedValue float64    `json:"totalEstimatedValue"`
	LastSync            *time.Time `json:"lastSync"`
}

// DashboardUsecase defines the interface for dashboard use cases
type DashboardUsecase interface {
	Stats(userID string) (*Stats, error)
	RecentActivity(userID string, limit int) ([]*synclogdomain.SyncLog, error)
}

// dashboardUsecase implements DashboardUsecase interface
type dashboardUsecase struct {
	contactRepo  contactrepo.ContactRepository
	propertyRepo propertyrepo.PropertyRepository
	syncLogRepo  synclogrepo.SyncLogRepository
}

// NewDashboardUsecase creates a new instance of dashboardUsecase
func NewDashboardUsecase(contactRepo contactrepo.ContactRepository, propertyRepo propertyrepo.PropertyRepository, syncLogRepo synclogrepo.SyncLogRepository) DashboardUsecase {
	return &dashboardUsecase{
		contactRepo:  contactRepo,
		propertyRepo: propertyRepo,
		syncLogRepo:  syncLogRepo,
	}
}

func (u *dashboardUsecase) Stats(userID string) (*Stats, error) {
	contacts, err := u.contactRepo.Count()
	if err != nil {
		return nil, err
	}

	properties, err := u.propertyRepo.Count()
	if err != nil {
		return nil, err
	}

	totalValue, err := u.propertyRepo.SumEstimatedValue()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalContacts:       contacts,
		TotalProperties:     properties,
		TotalEstimatedValue: totalValue,
	}

	lastSync, err := u.syncLogRepo.LatestCompleted(userID, integrationdomain.ProviderHubSpot, synclogdomain.SyncTypeContacts)
	if err != nil {
		return nil, err
	}
	if lastSync != nil {
		stats.LastSync = lastSync.CompletedAt
	}

	return stats, nil
}

func (u *dashboardUsecase) RecentActivity(userID string, limit int) ([]*synclogdomain.SyncLog, error) {
	// Empty provider spans both HubSpot syncs and CSV imports.
	return u.syncLogRepo.Recent(userID, "", limit)
}
