// Package umami is a client for the Umami Analytics HTTP API. It
// authenticates, fetches per-website metrics, and normalizes the
// heterogeneous payloads into one canonical bundle per report.
package umami

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/pkg/httpretry"
)

// ErrNoToken is returned when login succeeds at the HTTP level but the
// response carries no bearer token.
var ErrNoToken = errors.New("umami: authentication response contained no token")

// Client is an authenticated Umami API client. The token is fixed at
// construction time, so a Client can be shared across concurrent
// per-site tasks without synchronization.
type Client struct {
	baseURL    string
	token      string
	timezone   string
	httpClient httpretry.HTTPDoer
}

// NewClient creates an API client carrying the given bearer token.
func NewClient(cfg config.UmamiConfig, token string) *Client {
	return &Client{
		baseURL:  cfg.APIURL,
		token:    token,
		timezone: cfg.Timezone,
		httpClient: httpretry.New(&http.Client{
			Timeout: cfg.Timeout(),
		}, cfg.MaxRetries),
	}
}

// Login authenticates against the Umami API and returns a bearer token.
// The process must not start dispatching without one.
func Login(ctx context.Context, cfg config.UmamiConfig) (string, error) {
	if cfg.APIURL == "" || cfg.Username == "" || cfg.Password == "" {
		return "", errors.New("umami: api_url, username and password are required")
	}

	payload, err := json.Marshal(map[string]string{
		"username": cfg.Username,
		"password": cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: cfg.Timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed (status %d): %s", resp.StatusCode, string(body))
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", fmt.Errorf("parsing login response: %w", err)
	}
	if lr.Token == "" {
		return "", ErrNoToken
	}
	return lr.Token, nil
}

// doRequest makes an authorized GET against the API and returns the body.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// rangeParams builds the query parameters shared by every metric fetch.
func (c *Client) rangeParams(startMs, endMs int64, unit string) url.Values {
	params := url.Values{}
	params.Set("startAt", fmt.Sprintf("%d", startMs))
	params.Set("endAt", fmt.Sprintf("%d", endMs))
	params.Set("unit", unit)
	params.Set("tz", c.timezone)
	return params
}

// GetWebsiteStats fetches the aggregate-stats record for one website.
func (c *Client) GetWebsiteStats(ctx context.Context, websiteID string, startMs, endMs int64, unit string) (*ScalarStats, error) {
	body, err := c.doRequest(ctx, "/websites/"+websiteID+"/stats", c.rangeParams(startMs, endMs, unit))
	if err != nil {
		return nil, fmt.Errorf("fetching website stats: %w", err)
	}

	var stats ScalarStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("parsing website stats: %w", err)
	}
	return &stats, nil
}

// GetMetrics fetches one breakdown metric (pages, referrers, browsers, ...)
// as label/value rows, preserving the API's ordering.
func (c *Client) GetMetrics(ctx context.Context, websiteID, metricType string, startMs, endMs int64, unit string) ([]LabelValue, error) {
	params := c.rangeParams(startMs, endMs, unit)
	params.Set("type", metricType)

	body, err := c.doRequest(ctx, "/websites/"+websiteID+"/metrics", params)
	if err != nil {
		return nil, fmt.Errorf("fetching %s metrics: %w", metricType, err)
	}

	var rows []metricRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s metrics: %w", metricType, err)
	}

	out := make([]LabelValue, 0, len(rows))
	for _, row := range rows {
		out = append(out, LabelValue{Label: row.X, Value: row.Y})
	}
	return out, nil
}
