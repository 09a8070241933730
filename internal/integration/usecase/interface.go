package usecase

import (
	"context"

	"propcrm-backend/pkg/hubspot"
)

// ConnectionStatus is the settings-page view of a provider connection.
type ConnectionStatus struct {
	Connected   bool     `json:"connected"`
	AccountID   string   `json:"account_id,omitempty"`
	AccountName string   `json:"account_name,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
}

// IntegrationUsecase drives the CRM OAuth flow and hands out per-user clients.
type IntegrationUsecase interface {
	// Initiate returns the provider authorize URL for an authenticated user,
	// persisting a short-lived CSRF state record as a side effect.
	Initiate(userID string) (string, error)
	// HandleCallback runs the full callback flow and returns the settings-page
	// redirect URL carrying a success or error indicator. It never returns an
	// error; every failure becomes a distinct error code in the redirect.
	HandleCallback(ctx context.Context, code, state string) string
	// ClientForUser builds a CRM client from the user's active credential.
	ClientForUser(ctx context.Context, userID string) (*hubspot.Client, error)
	Disconnect(userID string) error
	Status(userID string) (*ConnectionStatus, error)
}
