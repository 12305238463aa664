// Package client is the API client for github-org-snapshot.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
)

// Client is the API client for github-org-snapshot
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-200 answer from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error: %d %s - %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Message)
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetLatestSnapshot retrieves the latest snapshot document of a repository
func (c *Client) GetLatestSnapshot(org, repo string) (*domain.Snapshot, error) {
	path := fmt.Sprintf("/api/v1/orgs/%s/repos/%s/snapshot", url.PathEscape(org), url.PathEscape(repo))

	body, err := c.getRaw(path, nil)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalDocument(body)
}

// ListSnapshots retrieves the run history of a repository
func (c *Client) ListSnapshots(org, repo string, limit int) ([]*domain.SnapshotRun, error) {
	path := fmt.Sprintf("/api/v1/orgs/%s/repos/%s/snapshots", url.PathEscape(org), url.PathEscape(repo))
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.SnapshotRun `json:"data"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetSnapshot retrieves one run with its document
func (c *Client) GetSnapshot(id string) (*domain.SnapshotRun, error) {
	path := fmt.Sprintf("/api/v1/snapshots/%s", url.PathEscape(id))

	var response struct {
		Data struct {
			*domain.SnapshotRun
			Snapshot *domain.Snapshot `json:"snapshot"`
		} `json:"data"`
	}
	response.Data.SnapshotRun = &domain.SnapshotRun{}
	if err := c.get(path, nil, &response); err != nil {
		return nil, err
	}

	run := response.Data.SnapshotRun
	run.Snapshot = response.Data.Snapshot
	if run.Snapshot != nil {
		run.Snapshot.Normalize()
	}
	return run, nil
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
	body, err := c.getRaw(path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

func (c *Client) getRaw(path string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	return body, nil
}
