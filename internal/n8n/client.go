// Package n8n is a thin client for the n8n public REST API.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/autoflow/internal/core/model"
)

const apiKeyHeader = "X-N8N-API-KEY"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the instance at baseURL. A nil httpClient
// gets a 30 second timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// APIError is a non-2xx reply from the instance.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("n8n API error: %d %s", e.StatusCode, e.Message)
}

// NodeType is one entry of the instance's node-type listing.
type NodeType struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Group       []string        `json:"group"`
	Version     json.RawMessage `json:"version,omitempty"`
}

// ListNodeTypes fetches the node-type catalog. The endpoint answers with a
// bare array on older instances and a {"data": [...]} envelope on newer ones.
func (c *Client) ListNodeTypes(ctx context.Context) ([]NodeType, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/node-types", nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []NodeType
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode node types: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Data []NodeType `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode node types: %w", err)
	}
	return envelope.Data, nil
}

type createRequest struct {
	Name        string                           `json:"name"`
	Nodes       []model.Node                     `json:"nodes"`
	Connections map[string]model.NodeConnections `json:"connections"`
	Settings    map[string]any                   `json:"settings"`
}

// CreateWorkflow stores the graph and returns the id the instance assigned.
// The public API requires parameters on every node and a connections map,
// so absent ones are sent empty.
func (c *Client) CreateWorkflow(ctx context.Context, wf *model.Workflow) (string, error) {
	body := createRequest{Name: wf.Name, Nodes: make([]model.Node, len(wf.Nodes)), Connections: wf.Connections, Settings: wf.Settings}
	for i, n := range wf.Nodes {
		if n.Parameters == nil {
			n.Parameters = map[string]any{}
		}
		body.Nodes[i] = n
	}
	if body.Connections == nil {
		body.Connections = map[string]model.NodeConnections{}
	}
	if body.Settings == nil {
		body.Settings = model.DefaultSettings()
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/workflows", body, &created); err != nil {
		return "", fmt.Errorf("failed to create workflow: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("failed to create workflow: response carried no id")
	}
	return created.ID, nil
}

func (c *Client) ActivateWorkflow(ctx context.Context, id string) error {
	body := map[string]bool{"active": true}
	if err := c.do(ctx, http.MethodPatch, "/workflows/"+id, body, nil); err != nil {
		return fmt.Errorf("failed to activate workflow %s: %w", id, err)
	}
	return nil
}

// TestConnection lists a single workflow and returns the instance version
// header when the instance reports one.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/workflows?limit=1", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach n8n: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return resp.Header.Get("X-N8N-Version"), nil
}

// WebhookURL is the production trigger URL for a webhook path.
func (c *Client) WebhookURL(path string) string {
	return fmt.Sprintf("%s/webhook/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

// TestWebhookURL is the URL that fires the webhook while the editor is
// listening for a test event.
func (c *Client) TestWebhookURL(path string) string {
	return fmt.Sprintf("%s/webhook-test/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
	}
	msg := resp.Status
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
