package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Endpoint is the provider's OAuth 2.0 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://app.hubspot.com/oauth/authorize",
	TokenURL: "https://api.hubapi.com/oauth/v1/token",
}

// Scopes required for contact management.
var Scopes = []string{
	"crm.objects.contacts.read",
	"crm.objects.contacts.write",
	"crm.schemas.contacts.read",
	"crm.objects.companies.read",
	"crm.objects.deals.read",
}

// OAuthConfig builds the oauth2 config used for the authorize redirect and the
// code-for-token exchange.
func OAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     Endpoint,
		Scopes:       Scopes,
	}
}

// AccountInfo is the token introspection payload from /oauth/v1/access-tokens.
type AccountInfo struct {
	HubID     int64    `json:"hub_id"`
	HubDomain string   `json:"hub_domain"`
	AppID     int64    `json:"app_id"`
	UserID    int64    `json:"user_id"`
	User      string   `json:"user"`
	Scopes    []string `json:"scopes"`
	TokenType string   `json:"token_type"`
}

// AccountInfo fetches account metadata for the client's access token.
func (c *Client) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	endpoint := c.baseURL + "/oauth/v1/access-tokens/" + c.accessToken

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var info AccountInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode account info: %w", err)
	}
	return &info, nil
}
