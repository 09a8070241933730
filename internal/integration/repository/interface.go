package repository

import integrationdomain "propcrm-backend/internal/integration/domain"

// IntegrationRepository persists OAuth credentials, one active row per
// (user, provider).
type IntegrationRepository interface {
	// Upsert inserts or replaces the credential keyed by (user_id, provider).
	Upsert(integration *integrationdomain.Integration) error
	FindActive(userID, provider string) (*integrationdomain.Integration, error)
	Deactivate(userID, provider string) error
}

// AuthStateRepository persists the short-lived OAuth state records.
type AuthStateRepository interface {
	Create(state *integrationdomain.AuthState) error
	// Take looks up a state record and deletes it unconditionally (single-use).
	// Returns nil when no record exists; expiry is the caller's check.
	Take(state, provider string) (*integrationdomain.AuthState, error)
}
