package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	integrationdomain "propcrm-backend/internal/integration/domain"
	"propcrm-backend/pkg/config"
	"propcrm-backend/pkg/hubspot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeStateRepo struct {
	states map[string]*integrationdomain.AuthState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*integrationdomain.AuthState)}
}

func (r *fakeStateRepo) Create(state *integrationdomain.AuthState) error {
	r.states[state.State] = state
	return nil
}

func (r *fakeStateRepo) Take(state, provider string) (*integrationdomain.AuthState, error) {
	record, ok := r.states[state]
	delete(r.states, state)
	if !ok || record.Provider != provider {
		return nil, nil
	}
	return record, nil
}

type fakeIntegrationRepo struct {
	integrations map[string]*integrationdomain.Integration
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{integrations: make(map[string]*integrationdomain.Integration)}
}

func (r *fakeIntegrationRepo) Upsert(integration *integrationdomain.Integration) error {
	r.integrations[integration.UserID+"|"+integration.Provider] = integration
	return nil
}

func (r *fakeIntegrationRepo) FindActive(userID, provider string) (*integrationdomain.Integration, error) {
	integration, ok := r.integrations[userID+"|"+provider]
	if !ok || !integration.IsActive {
		return nil, nil
	}
	return integration, nil
}

func (r *fakeIntegrationRepo) Deactivate(userID, provider string) error {
	if integration, ok := r.integrations[userID+"|"+provider]; ok {
		integration.IsActive = false
	}
	return nil
}

func oauthTestConfig() *config.Config {
	return &config.Config{
		AppBaseURL:          "http://localhost:3000",
		HubSpotClientID:     "client-id",
		HubSpotClientSecret: "client-secret",
		HubSpotRedirectURI:  "http://localhost:8080/api/integrations/hubspot/callback",
	}
}

func TestInitiatePersistsState(t *testing.T) {
	stateRepo := newFakeStateRepo()
	uc := NewIntegrationUsecase(stateRepo, newFakeIntegrationRepo(), oauthTestConfig())

	authURL, err := uc.Initiate("user-1")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	record, ok := stateRepo.states[state]
	require.True(t, ok)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, integrationdomain.ProviderHubSpot, record.Provider)
	assert.False(t, record.Expired())

	// The state token itself carries the user identity.
	payload, err := base64.RawURLEncoding.DecodeString(state)
	require.NoError(t, err)
	var decoded statePayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "user-1", decoded.UserID)
	assert.NotEmpty(t, decoded.Nonce)
}

func TestHandleCallbackMissingParams(t *testing.T) {
	uc := NewIntegrationUsecase(newFakeStateRepo(), newFakeIntegrationRepo(), oauthTestConfig())

	redirect := uc.HandleCallback(context.Background(), "", "some-state")
	assert.Equal(t, "http://localhost:3000/settings?error=invalid_callback", redirect)

	redirect = uc.HandleCallback(context.Background(), "some-code", "")
	assert.Equal(t, "http://localhost:3000/settings?error=invalid_callback", redirect)
}

func TestHandleCallbackUnknownState(t *testing.T) {
	integrationRepo := newFakeIntegrationRepo()
	uc := NewIntegrationUsecase(newFakeStateRepo(), integrationRepo, oauthTestConfig())

	redirect := uc.HandleCallback(context.Background(), "code", "never-issued")
	assert.Equal(t, "http://localhost:3000/settings?error=invalid_state", redirect)
	assert.Empty(t, integrationRepo.integrations)
}

func TestHandleCallbackExpiredState(t *testing.T) {
	stateRepo := newFakeStateRepo()
	stateRepo.states["old-state"] = &integrationdomain.AuthState{
		State:     "old-state",
		UserID:    "user-1",
		Provider:  integrationdomain.ProviderHubSpot,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	uc := NewIntegrationUsecase(stateRepo, newFakeIntegrationRepo(), oauthTestConfig())

	redirect := uc.HandleCallback(context.Background(), "code", "old-state")
	assert.Equal(t, "http://localhost:3000/settings?error=invalid_state", redirect)

	// Single use: the record is consumed even when rejected.
	assert.Empty(t, stateRepo.states)
}

func TestHandleCallbackTokenExchangeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	stateRepo := newFakeStateRepo()
	stateRepo.states["good-state"] = &integrationdomain.AuthState{
		State:     "good-state",
		UserID:    "user-1",
		Provider:  integrationdomain.ProviderHubSpot,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	uc := NewIntegrationUsecase(stateRepo, newFakeIntegrationRepo(), oauthTestConfig(),
		WithOAuthConfig(testOAuthConfig(server.URL)))

	redirect := uc.HandleCallback(context.Background(), "bad-code", "good-state")
	assert.Equal(t, "http://localhost:3000/settings?error=token_exchange_failed", redirect)
}

func TestHandleCallbackSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/oauth/token":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-tok",
				"refresh_token": "refresh-tok",
				"token_type":    "bearer",
				"expires_in":    1800,
			})
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/access-tokens/"):
			json.NewEncoder(w).Encode(hubspot.AccountInfo{
				HubID:     98765,
				HubDomain: "acme.hubspot.com",
				Scopes:    []string{"crm.objects.contacts.read"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	stateRepo := newFakeStateRepo()
	stateRepo.states["good-state"] = &integrationdomain.AuthState{
		State:     "good-state",
		UserID:    "user-1",
		Provider:  integrationdomain.ProviderHubSpot,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	integrationRepo := newFakeIntegrationRepo()
	uc := NewIntegrationUsecase(stateRepo, integrationRepo, oauthTestConfig(),
		WithOAuthConfig(testOAuthConfig(server.URL)),
		WithClientOptions(hubspot.WithBaseURL(server.URL)))

	redirect := uc.HandleCallback(context.Background(), "good-code", "good-state")
	assert.Equal(t, "http://localhost:3000/settings?success=hubspot_connected", redirect)

	stored, err := integrationRepo.FindActive("user-1", integrationdomain.ProviderHubSpot)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "access-tok", stored.AccessToken)
	assert.Equal(t, "refresh-tok", stored.RefreshToken)
	assert.Equal(t, "98765", stored.AccountID)
	assert.Equal(t, "acme.hubspot.com", stored.AccountName)
	assert.True(t, stored.IsActive)
}

func TestClientForUserNotConnected(t *testing.T) {
	uc := NewIntegrationUsecase(newFakeStateRepo(), newFakeIntegrationRepo(), oauthTestConfig())

	_, err := uc.ClientForUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDisconnectThenStatus(t *testing.T) {
	integrationRepo := newFakeIntegrationRepo()
	integrationRepo.integrations["user-1|"+integrationdomain.ProviderHubSpot] = &integrationdomain.Integration{
		UserID:      "user-1",
		Provider:    integrationdomain.ProviderHubSpot,
		AccessToken: "tok",
		AccountName: "acme.hubspot.com",
		IsActive:    true,
	}
	uc := NewIntegrationUsecase(newFakeStateRepo(), integrationRepo, oauthTestConfig())

	status, err := uc.Status("user-1")
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "acme.hubspot.com", status.AccountName)

	require.NoError(t, uc.Disconnect("user-1"))

	status, err = uc.Status("user-1")
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func testOAuthConfig(baseURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/integrations/hubspot/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   baseURL + "/oauth/authorize",
			TokenURL:  baseURL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
