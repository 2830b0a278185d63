package backboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Backboard HTTP API. All calls authenticate with
// the X-API-Key header and share a single http.Client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	return req, nil
}

// doJSON issues a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backboard: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backboard: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backboard: decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// APIError is returned for non-2xx provider responses so callers can
// branch on status codes.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backboard: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// CreateAssistant provisions a new assistant with the given system
// prompt and embedding configuration.
func (c *Client) CreateAssistant(ctx context.Context, req CreateAssistantRequest) (*Assistant, error) {
	var assistant Assistant
	if err := c.doJSON(ctx, http.MethodPost, "/assistants", req, &assistant); err != nil {
		return nil, err
	}
	if assistant.AssistantID == "" {
		return nil, fmt.Errorf("backboard: create assistant response missing assistant_id")
	}
	return &assistant, nil
}

func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	var assistant Assistant
	if err := c.doJSON(ctx, http.MethodGet, "/assistants/"+assistantID, nil, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/assistants/"+assistantID, nil, nil)
}
