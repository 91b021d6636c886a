package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/config"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/core/registry"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const intentJSON = `{
	"intent": "notification",
	"trigger": {"service": "webhook", "event": "request"},
	"actions": [{"service": "slack", "action": "postMessage"}],
	"required_nodes": ["webhook", "slack"],
	"complexity": "simple",
	"estimated_nodes": 2
}`

const workflowJSON = `{
  "name": "Webhook to Slack",
  "nodes": [
    {"id": "1", "name": "Webhook", "type": "n8n-nodes-base.webhook", "typeVersion": 1, "position": [0, 0], "parameters": {"path": "orders"}},
    {"id": "2", "name": "Slack", "type": "n8n-nodes-base.slack", "typeVersion": 2, "position": [300, 0], "parameters": {"channel": "#orders"}}
  ],
  "connections": {"Webhook": {"main": [[{"node": "Slack", "type": "main", "index": 0}]]}}
}`

type fixture struct {
	router   *gin.Engine
	mock     *llm.MockClient
	deployer *core.MockDeployer
	provider string
	apiKey   string
	n8nURL   string
}

func newFixture(t *testing.T, mock *llm.MockClient) *fixture {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Builder.Annotate = false
	logger := zaptest.NewLogger(t)
	reg := registry.New(nil, registry.WithLogger(logger))

	f := &fixture{mock: mock, deployer: &core.MockDeployer{Version: "1.64.0"}}
	srv := New(cfg, reg, nil, logger,
		WithPipelineFactory(func(ctx context.Context, provider, apiKey string) (*core.Pipeline, error) {
			f.provider, f.apiKey = provider, apiKey
			if apiKey == "" {
				return nil, apperr.Configuration("%s API key is required", strings.ToUpper(provider))
			}
			return core.NewPipeline(mock, core.Deps{Registry: reg, Builder: cfg.Builder, Repair: cfg.Repair, Logger: logger}), nil
		}),
		WithDeployerFactory(func(baseURL, apiKey string) core.Deployer {
			f.n8nURL = baseURL
			return f.deployer
		}),
	)
	f.router = srv.SetupRouter()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

var withKey = map[string]string{headerAPIKey: "sk-test"}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAnalyzeIntent(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: intentJSON})

	w := f.do(t, http.MethodPost, "/api/analyze-intent", AnalyzeRequest{Input: "post webhook orders to slack"}, withKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "notification", body["data"].(map[string]any)["intent"])
	assert.Equal(t, "openai", f.provider)
	assert.Equal(t, "sk-test", f.apiKey)
}

func TestProviderHeader(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: intentJSON})
	w := f.do(t, http.MethodPost, "/api/analyze-intent", AnalyzeRequest{Input: "x"}, map[string]string{headerProvider: " Gemini ", headerAPIKey: "k"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gemini", f.provider)
}

func TestMissingKeyIsUnauthorized(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: intentJSON})

	w := f.do(t, http.MethodPost, "/api/analyze-intent", AnalyzeRequest{Input: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(apperr.KindConfiguration), decode(t, w)["type"])
	assert.Zero(t, f.mock.CallCount())
}

func TestDefaultFactoryRejectsUnknownProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(config.Default(), registry.New(nil), nil, nil)
	router := srv.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-intent", strings.NewReader(`{"input":"x"}`))
	req.Header.Set(headerProvider, "mistral")
	req.Header.Set(headerAPIKey, "k")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBadBodies(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: intentJSON})

	tests := []struct {
		path string
		body any
	}{
		{"/api/analyze-intent", `{"input": 42}`},
		{"/api/analyze-intent", `{}`},
		{"/api/modify-intent", `{"modificationRequest": "use teams"}`},
		{"/api/generate-workflow", `{"user_input": "x"}`},
		{"/api/debug-workflow", `{"workflow": {"name": "w"}}`},
		{"/api/debug-workflow", `{"workflow": {"name": "w"}, "screenshot": "aGk=", "max_attempts": 50}`},
		{"/api/deploy-workflow", `{"workflow_json": {"name": "w"}, "n8n_instance": "not a url", "api_key": "k"}`},
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodPost, tt.path, tt.body, withKey)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %v", tt.path, tt.body)
	}
	assert.Zero(t, f.mock.CallCount())
}

func TestAnalysisFailureIsUnprocessable(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: `{"intent": "x"}`})
	w := f.do(t, http.MethodPost, "/api/analyze-intent", AnalyzeRequest{Input: "x"}, withKey)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(apperr.KindAnalysis), body["type"])
	assert.Equal(t, "/api/analyze-intent", body["instance"])
	assert.Equal(t, `{"intent": "x"}`, body["raw"])
}

func TestProviderFailureIsBadGateway(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Err: &llm.ProviderError{Provider: llm.ProviderOpenAI, StatusCode: 429, Message: "quota"}})
	w := f.do(t, http.MethodPost, "/api/analyze-intent", AnalyzeRequest{Input: "x"}, withKey)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, decode(t, w), "raw")
}

func TestExamples(t *testing.T) {
	f := newFixture(t, &llm.MockClient{})
	w := f.do(t, http.MethodGet, "/api/analyze-intent", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	examples := decode(t, w)["data"].(map[string]any)["examples"].([]any)
	assert.Len(t, examples, 5)
}

func TestModifyIntent(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: intentJSON})
	var orig map[string]any
	require.NoError(t, json.Unmarshal([]byte(intentJSON), &orig))

	w := f.do(t, http.MethodPost, "/api/modify-intent", map[string]any{
		"originalAnalysis":    orig,
		"modificationRequest": "use a webhook",
	}, withKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, f.mock.Calls[0].UserPrompt, "use a webhook")
}

func TestGenerateWorkflow(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: workflowJSON})
	var in map[string]any
	require.NoError(t, json.Unmarshal([]byte(intentJSON), &in))

	w := f.do(t, http.MethodPost, "/api/generate-workflow", map[string]any{"intent_analysis": in, "user_input": "orders"}, withKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "simple", data["estimated_complexity"])
	wf := data["workflow_json"].(map[string]any)
	assert.Equal(t, "Webhook to Slack", wf["name"])
	assert.Equal(t, map[string]any{"executionOrder": "v1"}, wf["settings"])
}

func TestGenerateRejectsBrokenGraph(t *testing.T) {
	broken := strings.Replace(workflowJSON, `"node": "Slack"`, `"node": "Teams"`, 1)
	f := newFixture(t, &llm.MockClient{Response: broken})
	var in map[string]any
	require.NoError(t, json.Unmarshal([]byte(intentJSON), &in))

	w := f.do(t, http.MethodPost, "/api/generate-workflow", map[string]any{"intent_analysis": in}, withKey)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(apperr.KindValidation), body["type"])
	assert.Contains(t, body["detail"], "Teams")
}

func TestGenerateUnparseableIsBadGateway(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Response: "Sorry, I cannot help."})
	var in map[string]any
	require.NoError(t, json.Unmarshal([]byte(intentJSON), &in))

	w := f.do(t, http.MethodPost, "/api/generate-workflow", map[string]any{"intent_analysis": in}, withKey)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decode(t, w)
	assert.Equal(t, string(apperr.KindGeneration), body["type"])
	assert.Equal(t, "Sorry, I cannot help.", body["raw"])
	assert.NotContains(t, body["detail"], "Sorry")
}

func TestDebugWorkflow(t *testing.T) {
	diagnosis := `{"error_analysis": {"root_cause": "wrong channel", "severity": "low", "affected_node": "Slack"},
		"suggested_fix": {"code_changes": {"Slack": {"channel": "#alerts"}}}, "auto_apply": true}`
	f := newFixture(t, &llm.MockClient{Response: diagnosis})
	var wf map[string]any
	require.NoError(t, json.Unmarshal([]byte(workflowJSON), &wf))
	slack := wf["nodes"].([]any)[1].(map[string]any)
	slack["retryOnFail"] = true
	slack["onError"] = "continueErrorOutput"

	w := f.do(t, http.MethodPost, "/api/debug-workflow", map[string]any{
		"workflow":  wf,
		"execution": map[string]any{"error_details": map[string]any{"node": "Slack", "message": "channel_not_found"}},
	}, withKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.EqualValues(t, 1, data["attempts"])
	assert.Equal(t, "wrong channel", data["analysis"].(map[string]any)["error_analysis"].(map[string]any)["root_cause"])

	fixed := data["fixed_workflow"].(map[string]any)["nodes"].([]any)[1].(map[string]any)
	assert.Equal(t, "#alerts", fixed["parameters"].(map[string]any)["channel"])
	assert.Equal(t, true, fixed["retryOnFail"])
	assert.Equal(t, "continueErrorOutput", fixed["onError"])
}

func TestDeployWorkflow(t *testing.T) {
	f := newFixture(t, &llm.MockClient{})
	var wf map[string]any
	require.NoError(t, json.Unmarshal([]byte(workflowJSON), &wf))

	w := f.do(t, http.MethodPost, "/api/deploy-workflow", map[string]any{
		"workflow_json": wf,
		"n8n_instance":  "https://n8n.example.com",
		"api_key":       "n8n-key",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "wf-1", data["workflow_id"])
	assert.Equal(t, "http://n8n.test/webhook/orders", data["webhook_url"])
	assert.Equal(t, "http://n8n.test/webhook-test/orders", data["test_webhook_url"])
	assert.Equal(t, "https://n8n.example.com", f.n8nURL)
	assert.Zero(t, f.mock.CallCount())
}

func TestDeployUnreachable(t *testing.T) {
	f := newFixture(t, &llm.MockClient{})
	f.deployer.ConnErr = errors.New("connection refused")
	var wf map[string]any
	require.NoError(t, json.Unmarshal([]byte(workflowJSON), &wf))

	w := f.do(t, http.MethodPost, "/api/deploy-workflow", map[string]any{
		"workflow_json": wf,
		"n8n_instance":  "https://n8n.example.com",
		"api_key":       "n8n-key",
	}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNodes(t *testing.T) {
	f := newFixture(t, &llm.MockClient{})

	w := f.do(t, http.MethodGet, "/api/nodes/search?q=slack", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	names := decode(t, w)["data"].(map[string]any)["names"].([]any)
	assert.Contains(t, names, "n8n-nodes-base.slack")

	w = f.do(t, http.MethodGet, "/api/nodes/recommend?q=email+the+team+on+slack", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nodes := decode(t, w)["data"].(map[string]any)["nodes"].([]any)
	assert.LessOrEqual(t, len(nodes), 5)
	assert.NotEmpty(t, nodes)

	w = f.do(t, http.MethodGet, "/api/nodes/search", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, &llm.MockClient{})

	w := f.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
