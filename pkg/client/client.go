// Package client is a typed client for the modelcheck /api/v1 runs API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	v1 "github.com/threagile/editor-e2e/api/v1"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets the server at baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(u.String(), "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// StartRun starts the named groups, or the whole catalogue.
// POST /api/v1/runs
func (c *Client) StartRun(ctx context.Context, groups ...string) (*v1.Run, error) {
	var run v1.Run
	if err := c.do(ctx, http.MethodPost, "/runs", v1.StartRunRequest{Groups: groups}, &run, "current"); err != nil {
		return nil, err
	}
	return &run, nil
}

// CurrentRun returns the run in progress, or nil when there is none.
// GET /api/v1/runs/current
func (c *Client) CurrentRun(ctx context.Context) (*v1.Run, error) {
	var run v1.Run
	err := c.do(ctx, http.MethodGet, "/runs/current", nil, &run, "current")
	if srvErrors.IsResourceNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// StopCurrentRun cancels the run in progress.
// DELETE /api/v1/runs/current
func (c *Client) StopCurrentRun(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/runs/current", nil, nil, "current")
}

// GetRun GET /api/v1/runs/{id}
func (c *Client) GetRun(ctx context.Context, id string) (*v1.Run, error) {
	var run v1.Run
	if err := c.do(ctx, http.MethodGet, "/runs/"+url.PathEscape(id), nil, &run, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRunSteps returns one page of the steps of a run.
// GET /api/v1/runs/{id}/steps
func (c *Client) ListRunSteps(ctx context.Context, id string, page, pageSize int) (*v1.StepListResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/runs/" + url.PathEscape(id) + "/steps"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var steps v1.StepListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &steps, id); err != nil {
		return nil, err
	}
	return &steps, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, id string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	zap.S().Named("client").Debugw("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusNotFound:
		return srvErrors.NewRunNotFoundError(id)
	case resp.StatusCode == http.StatusConflict:
		return srvErrors.NewRunInProgressError(id)
	default:
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}
}
