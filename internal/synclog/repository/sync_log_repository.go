package repository

import (
	"errors"
	"time"

	synclogdomain "propcrm-backend/internal/synclog/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncLogRepository implements SyncLogRepository interface
type syncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new instance of syncLogRepository
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{
		db: db,
	}
}

func (r *syncLogRepository) Create(entry *synclogdomain.SyncLog) error {
	entry.ID = uuid.New().String()
	now := time.Now()
	if entry.StartedAt.IsZero() {
		entry.StartedAt = now
	}
	entry.CreatedAt = now
	return r.db.Create(entry).Error
}

func (r *syncLogRepository) Update(entry *synclogdomain.SyncLog) error {
	return r.db.Save(entry).Error
}

func (r *syncLogRepository) LatestCompleted(userID, provider, syncType string) (*synclogdomain.SyncLog, error) {
	var entry synclogdomain.SyncLog
	err := r.db.
		Where("user_id = ? AND provider = ? AND sync_type = ? AND status = ?",
			userID, provider, syncType, synclogdomain.StatusCompleted).
		Order("completed_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *syncLogRepository) HasActive(userID, provider, syncType string) (bool, error) {
	var count int64
	err := r.db.Model(&synclogdomain.SyncLog{}).
		Where("user_id = ? AND provider = ? AND sync_type = ? AND status IN ?",
			userID, provider, syncType,
			[]string{synclogdomain.StatusStarted, synclogdomain.StatusInProgress}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *syncLogRepository) Recent(userID, provider string, limit int) ([]*synclogdomain.SyncLog, error) {
	if limit <= 0 {
		limit = 10
	}

	query := r.db.Where("user_id = ?", userID)
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	var entries []*synclogdomain.SyncLog
	err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
