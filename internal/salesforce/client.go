// Package salesforce is the REST client for the Salesforce-style record
// store. It owns token acquisition, account queries, and identifier
// validation against the store.
package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/sfid"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

const (
	accountFields = "Id, Name, ParentId, Parent.Name, Website, " +
		"BillingState, BillingCountry, BillingPostalCode, " +
		"ZI_Company_Name__c, ZI_Website__c, ZI_Company_State__c, ZI_Company_Country__c, ZI_Company_Postal_Code__c, " +
		"ContactMostFrequentEmail__c, RecordType.Name"

	shellFields = "Id, Name, Website, " +
		"BillingState, BillingCountry, BillingPostalCode, " +
		"ZI_Company_Name__c, ZI_Website__c, ZI_Company_State__c, ZI_Company_Country__c, ZI_Company_Postal_Code__c"

	// Connections are reused for an hour before re-authenticating,
	// matching the store's session lifetime.
	sessionTTL = time.Hour

	// IN-clause batches stay under the store's query length limits.
	idBatchSize = 200
)

// Client talks to the record store over its REST query API.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config

	mu          sync.Mutex
	accessToken string
	instanceURL string
	authedAt    time.Time
}

// NewClient creates a record-store client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

// QueryResult is a decoded page of query results.
type QueryResult struct {
	TotalSize int              `json:"totalSize"`
	Done      bool             `json:"done"`
	Records   []models.Account `json:"records"`
}

// ensureConnection authenticates with the password grant, reusing a cached
// token while it is fresh.
func (c *Client) ensureConnection(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Since(c.authedAt) < sessionTTL {
		return nil
	}

	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {c.cfg.SFClientID},
		"client_secret": {c.cfg.SFClientSecret},
		"username":      {c.cfg.SFUsername},
		"password":      {c.cfg.SFPassword + c.cfg.SFSecurityToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.SFLoginURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("parse token response: %w", err)
	}
	if token.AccessToken == "" || token.InstanceURL == "" {
		return fmt.Errorf("token response missing access_token or instance_url")
	}

	c.accessToken = token.AccessToken
	c.instanceURL = token.InstanceURL
	c.authedAt = time.Now()

	return nil
}

// Query executes a SOQL query and decodes the first page of results.
func (c *Client) Query(ctx context.Context, soql string) (*QueryResult, error) {
	if err := c.ensureConnection(ctx); err != nil {
		return nil, errors.ServiceError("failed to establish record store connection", err)
	}

	c.mu.Lock()
	endpoint := fmt.Sprintf("%s/services/data/%s/query?q=%s",
		c.instanceURL, c.cfg.SFAPIVersion, url.QueryEscape(soql))
	token := c.accessToken
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ServiceError("record store query failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read query response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ServiceError(
			fmt.Sprintf("record store query returned status %d", resp.StatusCode),
			fmt.Errorf("%s", string(body)))
	}

	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}

	return &result, nil
}

// TestConnection verifies the store is reachable with a trivial query.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	result, err := c.Query(ctx, "SELECT Id FROM Account LIMIT 5")
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	return true, fmt.Sprintf("Connection successful - Retrieved %d Account records", len(result.Records))
}

// ConnectionInfo reports the authenticated instance, if any.
func (c *Client) ConnectionInfo() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := "Not Connected"
	if c.accessToken != "" {
		status = "Connected"
	}
	return map[string]string{
		"instance_url": c.instanceURL,
		"session":      status,
		"api_version":  c.cfg.SFAPIVersion,
	}
}

// AccountByID fetches the full field set for one account. The identifier
// must be a well-formed 15- or 18-character account ID.
func (c *Client) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	id = strings.TrimSpace(id)
	if err := ValidateAccountIDFormat(id); err != nil {
		return nil, err
	}

	soql := fmt.Sprintf("SELECT %s FROM Account WHERE Id = '%s'", accountFields, escapeSOQL(id))
	result, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("no Account found with ID %s", id), nil)
	}

	return &result.Records[0], nil
}

// FetchShell retrieves the comparison field subset for a shell account.
// Returns (nil, nil) when the record does not exist.
func (c *Client) FetchShell(ctx context.Context, id string) (*models.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	soql := fmt.Sprintf("SELECT %s FROM Account WHERE Id = '%s'", shellFields, escapeSOQL(id))
	result, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	return &result.Records[0], nil
}

// QueryAccounts fetches accounts matching an optional WHERE clause,
// capped at limit rows.
func (c *Client) QueryAccounts(ctx context.Context, where string, limit int) ([]models.Account, error) {
	soql := fmt.Sprintf("SELECT %s FROM Account", accountFields)
	if strings.TrimSpace(where) != "" {
		soql += " WHERE " + where
	}
	soql += fmt.Sprintf(" LIMIT %d", limit)

	result, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// IDQueryResult carries the identifiers produced by a caller-supplied
// ID-only query plus how the limit was resolved.
type IDQueryResult struct {
	AccountIDs     []string `json:"account_ids"`
	TotalFound     int      `json:"total_found"`
	FinalQuery     string   `json:"final_query"`
	EffectiveLimit *int     `json:"effective_limit"` // nil means unlimited
}

// AccountIDsFromQuery validates and executes a caller-supplied SOQL query
// that must select Account IDs only. maxIDs of nil means no caller cap.
func (c *Client) AccountIDsFromQuery(ctx context.Context, soql string, maxIDs *int) (*IDQueryResult, error) {
	if err := ValidateIDQuery(soql); err != nil {
		return nil, err
	}

	finalQuery, err := BuildIDQuery(soql, maxIDs)
	if err != nil {
		return nil, err
	}

	result, err := c.Query(ctx, finalQuery)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		ids = append(ids, record.ID)
	}

	totalFound := len(ids)
	if !result.Done {
		totalFound = result.TotalSize
	}

	return &IDQueryResult{
		AccountIDs:     ids,
		TotalFound:     totalFound,
		FinalQuery:     finalQuery,
		EffectiveLimit: EffectiveLimit(ExtractLimit(soql), maxIDs),
	}, nil
}

// AccountsByIDs fetches full account data for a list of identifiers,
// chunked to respect IN-clause limits. 15-character identifiers are
// converted to their 18-character form for querying.
func (c *Client) AccountsByIDs(ctx context.Context, ids []string) ([]models.Account, error) {
	queryIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		queryIDs = append(queryIDs, sfid.To18(strings.TrimSpace(id)))
	}

	accounts := make([]models.Account, 0, len(queryIDs))
	for start := 0; start < len(queryIDs); start += idBatchSize {
		end := start + idBatchSize
		if end > len(queryIDs) {
			end = len(queryIDs)
		}

		soql := fmt.Sprintf("SELECT %s FROM Account WHERE Id IN (%s)",
			accountFields, quoteIDList(queryIDs[start:end]))
		result, err := c.Query(ctx, soql)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, result.Records...)
	}

	return accounts, nil
}

// IDValidation is the outcome of checking a batch of identifiers against
// the store. Valid IDs are reported in the format the caller supplied them.
type IDValidation struct {
	ValidAccountIDs    []string `json:"valid_account_ids"`
	InvalidAccountIDs  []string `json:"invalid_account_ids"`
	FormatInvalidCount int      `json:"format_invalid_count"`
	StoreInvalidCount  int      `json:"sf_invalid_count"`
}

// ValidateAccountIDs checks identifier format locally, then existence
// against the store.
func (c *Client) ValidateAccountIDs(ctx context.Context, ids []string) (*IDValidation, error) {
	validation := &IDValidation{
		ValidAccountIDs:   []string{},
		InvalidAccountIDs: []string{},
	}

	queryIDs := make([]string, 0, len(ids))
	original := make(map[string]string, len(ids)) // 18-char form -> supplied form
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if ValidateAccountIDFormat(id) != nil {
			validation.InvalidAccountIDs = append(validation.InvalidAccountIDs, id)
			validation.FormatInvalidCount++
			continue
		}
		id18 := sfid.To18(id)
		queryIDs = append(queryIDs, id18)
		original[id18] = id
	}

	for start := 0; start < len(queryIDs); start += idBatchSize {
		end := start + idBatchSize
		if end > len(queryIDs) {
			end = len(queryIDs)
		}
		batch := queryIDs[start:end]

		soql := fmt.Sprintf("SELECT Id FROM Account WHERE Id IN (%s)", quoteIDList(batch))
		result, err := c.Query(ctx, soql)
		if err != nil {
			return nil, err
		}

		found := make(map[string]bool, len(result.Records))
		for _, record := range result.Records {
			found[record.ID] = true
		}

		for _, id18 := range batch {
			if found[id18] {
				validation.ValidAccountIDs = append(validation.ValidAccountIDs, original[id18])
			} else {
				validation.InvalidAccountIDs = append(validation.InvalidAccountIDs, original[id18])
				validation.StoreInvalidCount++
			}
		}
	}

	return validation, nil
}

// ValidateAccountIDFormat checks that an identifier looks like an account
// ID: 15 or 18 characters with the account object-type prefix.
func ValidateAccountIDFormat(id string) error {
	if len(id) != 15 && len(id) != 18 {
		return errors.InvalidInput(fmt.Sprintf(
			"Account IDs must be 15 or 18 characters long, got %q (%d characters)", id, len(id)), nil)
	}
	if !strings.HasPrefix(id, "001") {
		return errors.InvalidInput(fmt.Sprintf("Account IDs must start with '001', got %q", id), nil)
	}
	return nil
}

func quoteIDList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + escapeSOQL(id) + "'"
	}
	return strings.Join(quoted, ", ")
}

func escapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
