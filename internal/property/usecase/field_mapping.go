package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	propertydomain "propcrm-backend/internal/property/domain"
)

// fieldMapping maps PropStream CSV column names to internal field names.
// Unrecognized columns are dropped from the mapped row (the raw audit record
// keeps them).
var fieldMapping = map[string]string{
	"Property Address":   "address",
	"Address":            "address",
	"City":               "city",
	"State":              "state",
	"Zip":                "zip_code",
	"Zip Code":           "zip_code",
	"County":             "county",
	"Property Type":      "property_type",
	"Bedrooms":           "bedrooms",
	"Bathrooms":          "bathrooms",
	"Square Feet":        "square_feet",
	"Lot Size":           "lot_size",
	"Year Built":         "year_built",
	"Estimated Value":    "estimated_value",
	"Tax Assessed Value": "tax_assessed_value",
	"Annual Taxes":       "annual_taxes",
	"Owner Name":         "owner_name",
	"Owner Phone":        "owner_phone",
	"Owner Email":        "owner_email",
	"Mailing Address":    "mailing_address",
	"Equity Estimate":    "equity_estimate",
	"Mortgage Balance":   "mortgage_balance",
	"Last Sale Date":     "last_sale_date",
	"Last Sale Price":    "last_sale_price",
	"Latitude":           "latitude",
	"Longitude":          "longitude",
	"PropStream ID":      "propstream_id",
}

// requiredFields must be satisfiable from the header row before any row is
// processed. The canonical name is what a missing-header error reports.
var requiredFields = []struct {
	field     string
	canonical string
}{
	{"address", "Property Address"},
	{"city", "City"},
	{"state", "State"},
	{"zip_code", "Zip"},
}

// missingHeaders returns the canonical names of required columns absent from
// the header row.
func missingHeaders(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		if field, ok := fieldMapping[strings.TrimSpace(header)]; ok {
			present[field] = true
		}
	}

	var missing []string
	for _, required := range requiredFields {
		if !present[required.field] {
			missing = append(missing, required.canonical)
		}
	}
	return missing
}

// mapRow applies the field mapping to one CSV row. Only the header name is
// normalized for the lookup; cell values pass through verbatim, whitespace and
// all, so stored text fields match the source row. Empty cells are dropped so
// downstream code sees absence, not empty strings.
func mapRow(headers, row []string) map[string]string {
	mapped := make(map[string]string, len(row))
	for i, header := range headers {
		if i >= len(row) {
			break
		}
		field, ok := fieldMapping[strings.TrimSpace(header)]
		if !ok {
			continue
		}
		if row[i] == "" {
			continue
		}
		mapped[field] = row[i]
	}
	return mapped
}

var numericFields = []string{
	"bedrooms", "bathrooms", "square_feet", "lot_size",
	"estimated_value", "tax_assessed_value", "annual_taxes",
	"equity_estimate", "mortgage_balance", "last_sale_price",
	"latitude", "longitude",
}

// buildProperty validates a mapped row and coerces it into a Property.
// Required fields must be non-empty; numeric fields must parse; dates are
// parsed defensively (invalid date means null, not an error).
func buildProperty(mapped map[string]string) (*propertydomain.Property, error) {
	for _, required := range requiredFields {
		if mapped[required.field] == "" {
			return nil, fmt.Errorf("missing required field %s", required.field)
		}
	}

	property := &propertydomain.Property{
		Address:          mapped["address"],
		City:             mapped["city"],
		State:            mapped["state"],
		ZipCode:          mapped["zip_code"],
		County:           mapped["county"],
		PropertyType:     mapped["property_type"],
		OwnerName:        mapped["owner_name"],
		OwnerPhone:       mapped["owner_phone"],
		OwnerEmail:       mapped["owner_email"],
		MailingAddress:   mapped["mailing_address"],
		PropStreamID:     mapped["propstream_id"],
		EnrichmentStatus: propertydomain.EnrichmentPending,
		IsActive:         true,
	}

	numbers := make(map[string]*float64, len(numericFields))
	for _, field := range numericFields {
		raw, ok := mapped[field]
		if !ok {
			continue
		}
		value, err := parseNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid number for %s: %q", field, raw)
		}
		numbers[field] = &value
	}

	property.Bedrooms = numbers["bedrooms"]
	property.Bathrooms = numbers["bathrooms"]
	property.SquareFeet = numbers["square_feet"]
	property.LotSize = numbers["lot_size"]
	property.EstimatedValue = numbers["estimated_value"]
	property.TaxAssessedValue = numbers["tax_assessed_value"]
	property.AnnualTaxes = numbers["annual_taxes"]
	property.EquityEstimate = numbers["equity_estimate"]
	property.MortgageBalance = numbers["mortgage_balance"]
	property.LastSalePrice = numbers["last_sale_price"]
	property.Latitude = numbers["latitude"]
	property.Longitude = numbers["longitude"]

	if raw, ok := mapped["year_built"]; ok {
		year, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid number for year_built: %q", raw)
		}
		property.YearBuilt = &year
	}

	if raw, ok := mapped["last_sale_date"]; ok {
		if parsed := parseDate(raw); parsed != nil {
			property.LastSaleDate = parsed
		}
	}

	return property, nil
}

// parseNumber handles the formats PropStream exports: plain numbers plus
// currency-style values like "$1,250,000".
func parseNumber(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
}

func parseDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return &parsed
		}
	}
	return nil
}
