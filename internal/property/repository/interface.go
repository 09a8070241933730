package repository

import propertydomain "propcrm-backend/internal/property/domain"

// PropertyRepository persists off-market property records.
type PropertyRepository interface {
	CreateBatch(properties []*propertydomain.Property) error
	ExistsByNaturalKey(address, city, state, zipCode string) (bool, error)
	FindByNaturalKey(address, city, state, zipCode string) (*propertydomain.Property, error)
	List(limit, offset int, city, state string) ([]*propertydomain.Property, int64, error)
	Count() (int64, error)
	SumEstimatedValue() (float64, error)
}

// RawImportRepository persists the per-row audit trail.
type RawImportRepository interface {
	CreateBatch(records []*propertydomain.RawImportRecord) error
	ListByFilename(filename string, limit, offset int) ([]*propertydomain.RawImportRecord, int64, error)
}
