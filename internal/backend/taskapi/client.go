// Package taskapi implements the service.Service interface against the
// taskmgmt REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"taskmgmt/internal/auth"
	"taskmgmt/internal/service"
)

// Client implements service.Service over HTTP. Every authenticated call
// acquires a fresh bearer token from the provider and injects it into
// the Authorization header. The client performs no retries; retry
// policy lives in the caller.
type Client struct {
	baseURL  string
	http     *http.Client
	provider auth.Provider
	log      *zap.Logger
}

// New creates a client for the given base URL. provider may be nil when
// the session is not authenticated yet; authenticated calls then fail
// with service.ErrAuthNotReady. httpClient defaults to
// http.DefaultClient; no extra timeout is imposed here.
func New(baseURL string, provider auth.Provider, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		provider: provider,
		log:      log,
	}
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	var tasks []service.Task
	path := "/?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, true, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, email, details string) (service.Task, error) {
	var task service.Task
	body := service.TaskRequest{Email: email, Details: details}
	if err := c.do(ctx, http.MethodPost, "/", &body, true, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id, email, details string) (service.Task, error) {
	var task service.Task
	body := service.TaskRequest{Email: email, Details: details}
	if err := c.do(ctx, http.MethodPut, "/"+id, &body, true, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+id, nil, true, nil)
}

// do performs one HTTP round-trip: token acquisition, header injection,
// status validation, JSON decode into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if authed {
		if c.provider == nil || !c.provider.Ready() {
			return service.ErrAuthNotReady
		}
		token, err := c.provider.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", service.ErrAuthTokenUnavailable, err)
		}
		if token == "" {
			return service.ErrAuthTokenUnavailable
		}
		c.log.Debug("fetched bearer token", zap.String("path", path))
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		// JSON content type only when a body is sent
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &service.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &service.RemoteError{Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Probe checks the API health endpoint. Unauthenticated; any failure,
// transport or status, is reported as a single error.
func Probe(ctx context.Context, baseURL string, httpClient *http.Client) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health-check", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &service.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &service.RemoteError{Status: resp.StatusCode}
	}
	return nil
}
