package repository

import contactdomain "propcrm-backend/internal/contact/domain"

// ContactRepository persists the local contact mirror.
type ContactRepository interface {
	// Upsert inserts or replaces a contact keyed by hubspot_id.
	Upsert(contact *contactdomain.Contact) error
	FindByHubSpotID(hubspotID string) (*contactdomain.Contact, error)
	List(limit, offset int, search string) ([]*contactdomain.Contact, int64, error)
	Count() (int64, error)
}
