package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://api.hubapi.com"

// DefaultContactProperties is the property set fetched when the caller does not
// ask for specific ones.
var DefaultContactProperties = []string{
	"email", "firstname", "lastname", "phone", "company",
	"jobtitle", "lifecyclestage", "hs_lead_status",
	"lastmodifieddate", "createdate",
}

// Contact is a remote CRM contact as returned by the contacts API.
type Contact struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

// LastModified parses the lastmodifieddate property. The zero time is returned
// when the property is absent or unparseable.
func (c *Contact) LastModified() time.Time {
	raw := c.Properties["lastmodifieddate"]
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

type ContactPage struct {
	Results []Contact `json:"results"`
	Paging  *Paging   `json:"paging,omitempty"`
}

// NextAfter returns the opaque cursor for the next page, or "" on the last page.
func (p *ContactPage) NextAfter() string {
	if p.Paging == nil || p.Paging.Next == nil {
		return ""
	}
	return p.Paging.Next.After
}

type Paging struct {
	Next *PagingNext `json:"next,omitempty"`
}

type PagingNext struct {
	After string `json:"after"`
	Link  string `json:"link,omitempty"`
}

// SearchFilter is a single property filter for the contacts search API.
type SearchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

// APIError carries the status and body of any non-2xx CRM response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot api error: %d - %s", e.StatusCode, e.Body)
}

// Client is a thin wrapper over the CRM REST API. It holds the bearer token for
// a single connected account; one client per user per request.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListContacts fetches one page of contacts. The after cursor is provider-defined
// and must be treated as opaque; pass "" for the first page.
func (c *Client) ListContacts(ctx context.Context, limit int, after string, properties ...string) (*ContactPage, error) {
	if limit <= 0 {
		limit = 100
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if after != "" {
		query.Set("after", after)
	}
	if len(properties) == 0 {
		properties = DefaultContactProperties
	}
	for _, prop := range properties {
		query.Add("properties", prop)
	}

	var page ContactPage
	if err := c.request(ctx, http.MethodGet, "/crm/v3/objects/contacts", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetContact(ctx context.Context, contactID string) (*Contact, error) {
	var contact Contact
	if err := c.request(ctx, http.MethodGet, "/crm/v3/objects/contacts/"+contactID, nil, nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) CreateContact(ctx context.Context, properties map[string]string) (*Contact, error) {
	body := map[string]interface{}{"properties": properties}
	var contact Contact
	if err := c.request(ctx, http.MethodPost, "/crm/v3/objects/contacts", nil, body, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) UpdateContact(ctx context.Context, contactID string, properties map[string]string) (*Contact, error) {
	body := map[string]interface{}{"properties": properties}
	var contact Contact
	if err := c.request(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+contactID, nil, body, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	return c.request(ctx, http.MethodDelete, "/crm/v3/objects/contacts/"+contactID, nil, nil, nil)
}

func (c *Client) SearchContacts(ctx context.Context, filters []SearchFilter, limit int) (*ContactPage, error) {
	if limit <= 0 {
		limit = 100
	}

	body := map[string]interface{}{
		"filterGroups": []map[string]interface{}{{"filters": filters}},
		"limit":        limit,
		"properties":   DefaultContactProperties,
	}

	var page ContactPage
	if err := c.request(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", nil, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type batchResponse struct {
	Results []Contact `json:"results"`
}

func (c *Client) BatchCreateContacts(ctx context.Context, inputs []map[string]string) ([]Contact, error) {
	wrapped := make([]map[string]interface{}, 0, len(inputs))
	for _, properties := range inputs {
		wrapped = append(wrapped, map[string]interface{}{"properties": properties})
	}

	var resp batchResponse
	if err := c.request(ctx, http.MethodPost, "/crm/v3/objects/contacts/batch/create", nil, map[string]interface{}{"inputs": wrapped}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// BatchUpdateInput pairs a remote contact ID with the properties to write.
type BatchUpdateInput struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (c *Client) BatchUpdateContacts(ctx context.Context, inputs []BatchUpdateInput) ([]Contact, error) {
	var resp batchResponse
	if err := c.request(ctx, http.MethodPost, "/crm/v3/objects/contacts/batch/update", nil, map[string]interface{}{"inputs": inputs}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
