package repository

import (
	"time"

	propertydomain "propcrm-backend/internal/property/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// rawImportRepository implements RawImportRepository interface
type rawImportRepository struct {
	db *gorm.DB
}

// NewRawImportRepository creates a new instance of rawImportRepository
func NewRawImportRepository(db *gorm.DB) RawImportRepository {
	return &rawImportRepository{
		db: db,
	}
}

func (r *rawImportRepository) CreateBatch(records []*propertydomain.RawImportRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	for _, record := range records {
		if record.ID == "" {
			record.ID = uuid.New().String()
		}
		record.CreatedAt = now
	}

	return r.db.Create(records).Error
}

func (r *rawImportRepository) ListByFilename(filename string, limit, offset int) ([]*propertydomain.RawImportRecord, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Model(&propertydomain.RawImportRecord{}).Where("filename = ?", filename)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*propertydomain.RawImportRecord
	err := query.Order("row_number ASC").Limit(limit).Offset(offset).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
