package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EnrichmentPending  = "pending"
	EnrichmentEnriched = "enriched"
	EnrichmentError    = "error"
)

// Property is a locally owned off-market real-estate record. The natural key
// (address, city, state, zip_code) is used for best-effort duplicate
// suppression at ingest time; it is not a storage-level unique constraint.
type Property struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Address string `json:"address" gorm:"index:idx_properties_natural;not null"`
	City    string `json:"city" gorm:"index:idx_properties_natural;not null"`
	State   string `json:"state" gorm:"index:idx_properties_natural;not null"`
	ZipCode string `json:"zip_code" gorm:"index:idx_properties_natural;not null"`
	County  string `json:"county"`

	PropertyType string   `json:"property_type"`
	Bedrooms     *float64 `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	SquareFeet   *float64 `json:"square_feet"`
	LotSize      *float64 `json:"lot_size"`
	YearBuilt    *int     `json:"year_built"`

	EstimatedValue   *float64   `json:"estimated_value"`
	TaxAssessedValue *float64   `json:"tax_assessed_value"`
	AnnualTaxes      *float64   `json:"annual_taxes"`
	EquityEstimate   *float64   `json:"equity_estimate"`
	MortgageBalance  *float64   `json:"mortgage_balance"`
	LastSaleDate     *time.Time `json:"last_sale_date"`
	LastSalePrice    *float64   `json:"last_sale_price"`

	OwnerName      string `json:"owner_name"`
	OwnerPhone     string `json:"owner_phone"`
	OwnerEmail     string `json:"owner_email"`
	MailingAddress string `json:"mailing_address"`

	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PropStreamID string   `json:"propstream_id"`

	EnrichmentStatus string    `json:"enrichment_status"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	RawStatusPending = "pending"
	RawStatusSynced  = "synced"
	RawStatusError   = "error"
	RawStatusSkipped = "skipped"
)

// RawImportRecord is the audit-trail copy of one CSV line, kept whether or not
// the row produced a property. Write-once except for the property-ID backfill.
type RawImportRecord struct {
	ID               string            `json:"id" gorm:"primaryKey"`
	Filename         string            `json:"filename" gorm:"index;not null"`
	RowNumber        int               `json:"row_number"`
	RawData          datatypes.JSONMap `json:"raw_data"`
	ProcessingStatus string            `json:"processing_status"`
	ProcessingError  string            `json:"processing_error"`
	PropertyID       string            `json:"property_id"`
	CreatedAt        time.Time         `json:"created_at"`
}
