package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ProviderHubSpot    = "hubspot"
	ProviderPropStream = "propstream"
)

// Integration holds the OAuth credential for one (user, provider) pair. At most
// one row exists per pair; disconnecting deactivates instead of deleting.
type Integration struct {
	ID           string                      `json:"id" gorm:"primaryKey"`
	UserID       string                      `json:"user_id" gorm:"uniqueIndex:idx_integrations_user_provider;not null"`
	Provider     string                      `json:"provider" gorm:"uniqueIndex:idx_integrations_user_provider;not null"`
	AccessToken  string                      `json:"-"`
	RefreshToken string                      `json:"-"`
	ExpiresAt    *time.Time                  `json:"expires_at"`
	AccountID    string                      `json:"account_id"`
	AccountName  string                      `json:"account_name"`
	Scopes       datatypes.JSONSlice[string] `json:"scopes"`
	Metadata     datatypes.JSONMap           `json:"metadata"`
	IsActive     bool                        `json:"is_active"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// Expired reports whether the access token is past its expiry. A credential
// without a recorded expiry never reports expired.
func (i *Integration) Expired() bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(time.Now())
}

// AuthState is the single-use CSRF state persisted between the authorize
// redirect and the provider callback.
type AuthState struct {
	State     string    `json:"state" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Provider  string    `json:"provider" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *AuthState) Expired() bool {
	return s.ExpiresAt.Before(time.Now())
}
