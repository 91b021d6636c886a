package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNodeTypesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/node-types", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))
		_, _ = w.Write([]byte(`[{"name":"n8n-nodes-base.slack","displayName":"Slack","description":"Send messages","group":["output"],"version":[1,2]}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "secret", nil)
	types, err := c.ListNodeTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Slack", types[0].DisplayName)
	assert.Equal(t, []string{"output"}, types[0].Group)
}

func TestListNodeTypesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"name":"a"},{"name":"b"}]}`))
	}))
	defer server.Close()

	types, err := NewClient(server.URL, "k", nil).ListNodeTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"X-N8N-API-KEY header required"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", nil).ListNodeTypes(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "X-N8N-API-KEY header required", apiErr.Message)
}

func TestCreateAndActivateWorkflow(t *testing.T) {
	var created map[string]any
	var activated map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/workflows":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			_, _ = w.Write([]byte(`{"id":"wf-42"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/workflows/wf-42":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&activated))
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", nil)
	wf := &model.Workflow{
		ID:    "ignored",
		Name:  "demo",
		Nodes: []model.Node{{Name: "Webhook", Type: "n8n-nodes-base.webhook", Position: model.Position{0, 0},
			Extra: map[string]json.RawMessage{"retryOnFail": json.RawMessage(`true`)}}},
	}

	id, err := c.CreateWorkflow(context.Background(), wf)
	require.NoError(t, err)
	assert.Equal(t, "wf-42", id)
	assert.Equal(t, "demo", created["name"])
	_, hasID := created["id"]
	assert.False(t, hasID)
	assert.Equal(t, map[string]any{"executionOrder": "v1"}, created["settings"])
	assert.Equal(t, map[string]any{}, created["connections"])
	node := created["nodes"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{}, node["parameters"])
	assert.Equal(t, true, node["retryOnFail"])
	assert.Nil(t, wf.Nodes[0].Parameters)

	require.NoError(t, c.ActivateWorkflow(context.Background(), id))
	assert.Equal(t, true, activated["active"])
}

func TestCreateWorkflowWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", nil).CreateWorkflow(context.Background(), &model.Workflow{Name: "x"})
	assert.Error(t, err)
}

func TestTestConnectionReadsVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("X-N8N-Version", "1.64.0")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	version, err := NewClient(server.URL, "k", nil).TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.64.0", version)
}

func TestWebhookURL(t *testing.T) {
	c := NewClient("https://n8n.example.com/", "k", nil)
	assert.Equal(t, "https://n8n.example.com/webhook/orders", c.WebhookURL("orders"))
	assert.Equal(t, "https://n8n.example.com/webhook/orders", c.WebhookURL("/orders"))
	assert.Equal(t, "https://n8n.example.com/webhook-test/orders", c.TestWebhookURL("orders"))
}
