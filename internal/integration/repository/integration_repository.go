package repository

import (
	"errors"
	"time"

	integrationdomain "propcrm-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// integrationRepository implements IntegrationRepository interface
type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new instance of integrationRepository
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{
		db: db,
	}
}

func (r *integrationRepository) Upsert(integration *integrationdomain.Integration) error {
	now := time.Now()
	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}
	integration.UpdatedAt = now

	// Conflict on the (user_id, provider) unique index keeps the at-most-one
	// credential invariant without a read-then-write race.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "expires_at",
			"account_id", "account_name", "scopes", "metadata",
			"is_active", "updated_at",
		}),
	}).Create(integration).Error
}

func (r *integrationRepository) FindActive(userID, provider string) (*integrationdomain.Integration, error) {
	var integration integrationdomain.Integration
	err := r.db.Where("user_id = ? AND provider = ? AND is_active = ?", userID, provider, true).First(&integration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &integration, nil
}

func (r *integrationRepository) Deactivate(userID, provider string) error {
	return r.db.Model(&integrationdomain.Integration{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}
