package repository

import (
	"errors"
	"time"

	propertydomain "propcrm-backend/internal/property/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// propertyRepository implements PropertyRepository interface
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new instance of propertyRepository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{
		db: db,
	}
}

func (r *propertyRepository) CreateBatch(properties []*propertydomain.Property) error {
	if len(properties) == 0 {
		return nil
	}

	now := time.Now()
	for _, property := range properties {
		if property.ID == "" {
			property.ID = uuid.New().String()
		}
		property.CreatedAt = now
		property.UpdatedAt = now
	}

	return r.db.Create(properties).Error
}

func (r *propertyRepository) ExistsByNaturalKey(address, city, state, zipCode string) (bool, error) {
	var count int64
	err := r.db.Model(&propertydomain.Property{}).
		Where("address = ? AND city = ? AND state = ? AND zip_code = ?", address, city, state, zipCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *propertyRepository) FindByNaturalKey(address, city, state, zipCode string) (*propertydomain.Property, error) {
	var property propertydomain.Property
	err := r.db.
		Where("address = ? AND city = ? AND state = ? AND zip_code = ?", address, city, state, zipCode).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List(limit, offset int, city, state string) ([]*propertydomain.Property, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Model(&propertydomain.Property{}).Where("is_active = ?", true)
	if city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if state != "" {
		query = query.Where("state ILIKE ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []*propertydomain.Property
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (r *propertyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&propertydomain.Property{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *propertyRepository) SumEstimatedValue() (float64, error) {
	var total float64
	err := r.db.Model(&propertydomain.Property{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(estimated_value), 0)").
		Scan(&total).Error
	return total, err
}
