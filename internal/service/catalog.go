package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pageza/agentic-grocery/backend/internal/types"
)

var (
	// ErrNotConfigured means no catalog credentials were supplied; callers
	// fall back to static pricing instead of surfacing an error.
	ErrNotConfigured = errors.New("catalog credentials not configured")
	// ErrNoMatch means the search returned no usable product.
	ErrNoMatch = errors.New("no matching product")
)

// tokenExpiryBuffer keeps us from using a token that is about to lapse
// mid-request.
const tokenExpiryBuffer = 60 * time.Second

// CatalogClient talks to a Kroger-style retail product API using OAuth
// client-credentials. Access tokens are cached and reused until shortly
// before expiry.
type CatalogClient struct {
	clientID     string
	clientSecret string
	apiBase      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewCatalogClient(clientID, clientSecret, apiBase string) *CatalogClient {
	return &CatalogClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBase:      strings.TrimRight(apiBase, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether catalog credentials are present.
func (c *CatalogClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Token returns a valid access token, reusing the cached one while it has
// more than a minute of life left. A failed refresh leaves any previously
// cached token untouched.
func (c *CatalogClient) Token(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > tokenExpiryBuffer {
		return c.accessToken, nil
	}

	token, expiresIn, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	c.accessToken = token
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *CatalogClient) fetchToken(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "product.compact")

	// The token endpoint hangs off the unversioned API root.
	tokenURL := strings.TrimSuffix(c.apiBase, "/v1") + "/connect/oauth2/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("token request returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, errors.New("token response missing access_token")
	}
	if payload.ExpiresIn <= 0 {
		payload.ExpiresIn = 1800
	}

	return payload.AccessToken, payload.ExpiresIn, nil
}

// Search looks up a single best-match product for the given term.
func (c *CatalogClient) Search(ctx context.Context, term string) (*types.Product, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("filter.term", term)
	q.Set("filter.limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBase+"/products?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("product search returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			ProductID   string `json:"productId"`
			Description string `json:"description"`
			Brand       string `json:"brand"`
			Items       []struct {
				Price struct {
					Regular float64 `json:"regular"`
					Promo   float64 `json:"promo"`
				} `json:"price"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding product response: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, ErrNoMatch
	}

	hit := payload.Data[0]
	product := &types.Product{
		ProductID:   hit.ProductID,
		Description: hit.Description,
		Brand:       hit.Brand,
	}
	if len(hit.Items) > 0 {
		price := hit.Items[0].Price.Regular
		if price <= 0 {
			price = hit.Items[0].Price.Promo
		}
		product.Price = price
	}
	if product.Price <= 0 {
		return nil, ErrNoMatch
	}

	return product, nil
}
