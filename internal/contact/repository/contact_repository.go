package repository

import (
	"errors"
	"time"

	contactdomain "propcrm-backend/internal/contact/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of contactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func (r *contactRepository) Upsert(contact *contactdomain.Contact) error {
	now := time.Now()
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	// Conflict on the hubspot_id unique index keeps one row per remote contact
	// even when two syncs race on the same record.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hubspot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "phone", "company",
			"job_title", "lifecycle_stage", "lead_status", "last_activity_at",
			"properties", "sync_status", "last_sync_at", "sync_error", "updated_at",
		}),
	}).Create(contact).Error
}

func (r *contactRepository) FindByHubSpotID(hubspotID string) (*contactdomain.Contact, error) {
	var contact contactdomain.Contact
	err := r.db.Where("hubspot_id = ?", hubspotID).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(limit, offset int, search string) ([]*contactdomain.Contact, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Model(&contactdomain.Contact{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR company ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []*contactdomain.Contact
	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *contactRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&contactdomain.Contact{}).Count(&count).Error
	return count, err
}
