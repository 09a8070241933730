package repository

import (
	"errors"
	"time"

	integrationdomain "propcrm-backend/internal/integration/domain"

	"gorm.io/gorm"
)

// authStateRepository implements AuthStateRepository interface
type authStateRepository struct {
	db *gorm.DB
}

// NewAuthStateRepository creates a new instance of authStateRepository
func NewAuthStateRepository(db *gorm.DB) AuthStateRepository {
	return &authStateRepository{
		db: db,
	}
}

func (r *authStateRepository) Create(state *integrationdomain.AuthState) error {
	state.CreatedAt = time.Now()
	return r.db.Create(state).Error
}

func (r *authStateRepository) Take(state, provider string) (*integrationdomain.AuthState, error) {
	var record integrationdomain.AuthState
	err := r.db.Where("state = ? AND provider = ?", state, provider).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Single-use: delete as soon as it has been looked up, expired or not.
	if err := r.db.Where("state = ?", state).Delete(&integrationdomain.AuthState{}).Error; err != nil {
		return nil, err
	}

	return &record, nil
}
