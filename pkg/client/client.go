package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// Client is the API client for github-release-delta
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetRepoDelta resolves the release delta for one repository
func (c *Client) GetRepoDelta(owner, repo string) (*domain.PublishedResult, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/delta", owner, repo)

	var response struct {
		Data *domain.PublishedResult `json:"data"`
	}
	if err := c.get(path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ScanAccount resolves release deltas for all eligible repositories of an
// account
func (c *Client) ScanAccount(login string) ([]*domain.PublishedResult, []domain.RepoFailure, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/deltas", login)

	var response struct {
		Data     []*domain.PublishedResult `json:"data"`
		Failures []domain.RepoFailure      `json:"failures"`
	}
	if err := c.get(path, nil, &response); err != nil {
		return nil, nil, err
	}
	return response.Data, response.Failures, nil
}

// GetScans retrieves the stored scan history for an account
func (c *Client) GetScans(login string, limit int) ([]*domain.Scan, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/scans", login)
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.Scan `json:"data"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetLatestScan retrieves the most recent stored scan for an account
func (c *Client) GetLatestScan(login string) (*domain.Scan, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/scans/latest", login)

	var response struct {
		Data *domain.Scan `json:"data"`
	}
	if err := c.get(path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
