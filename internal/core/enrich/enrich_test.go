package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLibraries(t *testing.T) {
	got := Libraries([]string{"n8n-nodes-base.gmail", "GoogleSheets", "slack", "gmail", "unknownThing", "@n8n/n8n-nodes-langchain.openai"})
	assert.Equal(t, []string{"googleapis", "slack", "openai"}, got)
	assert.Empty(t, Libraries(nil))
}

func TestEnrichRendersTopSnippets(t *testing.T) {
	long := strings.Repeat("x", 600)
	docs := &MockDocs{
		Libraries: map[string][]Library{
			"slack": {{ID: "/slackapi/node-slack-sdk", Title: "Slack SDK", TrustScore: 9.5, Stars: 12345, LastUpdateDate: "2025-05-01T10:00:00Z", Versions: []string{"v7.0.0"}}},
		},
		SnippetsFor: map[string][]Snippet{
			"/slackapi/node-slack-sdk": {
				{Title: "Post a message", Content: long},
				{Title: "Upload a file", Content: "files.upload"},
				{Title: "Reactions", Content: "reactions.add"},
				{Title: "Fourth", Content: "never shown"},
			},
		},
	}
	e := NewEnricher(docs, zaptest.NewLogger(t))

	out := e.Enrich(context.Background(), "post to the team channel", []string{"slack"})

	assert.Contains(t, out, "## Slack SDK (Latest: v7.0.0)")
	assert.Contains(t, out, "**Trust Score**: 9.5/10 | **Stars**: 12,345")
	assert.Contains(t, out, "**Updated**: 2025-05-01")
	assert.Contains(t, out, "### Post a message\n```\n"+strings.Repeat("x", 500)+"\n```")
	assert.NotContains(t, out, strings.Repeat("x", 501))
	assert.Contains(t, out, "### Reactions")
	assert.NotContains(t, out, "Fourth")
}

func TestEnrichIsolatesLibraryFailures(t *testing.T) {
	docs := &MockDocs{
		Libraries: map[string][]Library{
			"slack": {{ID: "slack-id", Title: "Slack SDK"}},
		},
		SnippetsFor: map[string][]Snippet{"slack-id": {{Title: "chat.postMessage", Content: "..."}}},
		SearchErr:   map[string]error{"googleapis": errors.New("503")},
	}
	e := NewEnricher(docs, nil)

	out := e.Enrich(context.Background(), "mail to chat", []string{"gmail", "slack"})
	assert.Equal(t, []string{"googleapis", "slack"}, docs.Searched)
	assert.Contains(t, out, "## Slack SDK (Latest: N/A)")
	assert.Contains(t, out, "**Updated**: unknown")
}

func TestEnrichSkipsLibrariesWithoutResults(t *testing.T) {
	docs := &MockDocs{
		Libraries:  map[string][]Library{"slack": {{ID: "s"}}},
		SnippetErr: map[string]error{"s": errors.New("boom")},
	}
	e := NewEnricher(docs, nil)

	assert.Empty(t, e.Enrich(context.Background(), "forward mail", []string{"gmail", "slack"}))
}

func TestEnrichWithoutDocsStillGuides(t *testing.T) {
	e := NewEnricher(nil, nil)
	out := e.Enrich(context.Background(), "Summarize new emails with Gemini every morning", []string{"gmail"})

	assert.Contains(t, out, agentNode)
	assert.Contains(t, out, "lmChatGoogleGemini")
	assert.Contains(t, out, "scheduleTrigger")
}

func TestGuide(t *testing.T) {
	assert.Empty(t, Guide("copy rows from sheets to notion"))

	out := Guide("Translate incoming form posts with Claude")
	assert.Contains(t, out, "lmChatAnthropic")
	assert.Contains(t, out, "Google Translate")
	assert.Contains(t, out, "n8n-nodes-base.webhook")

	// "email" must not read as an AI request.
	assert.Empty(t, Guide("send an email"))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
	assert.Equal(t, "-12,345", groupThousands(-12345))
}

func TestContext7Client(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer c7-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v2/libs/search":
			assert.Equal(t, "slack", r.URL.Query().Get("libraryName"))
			assert.Equal(t, "post message", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"results":[{"id":"/slackapi/sdk","title":"Slack","trustScore":9,"stars":100,"versions":["1.0"]}]}`))
		case "/api/v2/libs/%2Fslackapi%2Fsdk/snippets", "/api/v2/libs//slackapi/sdk/snippets":
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"snippets":[{"id":"1","title":"Post","content":"chat.postMessage"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewContext7(server.URL+"/api/v2", "c7-key", nil)
	libs, err := c.SearchLibraries(context.Background(), "slack", "post message")
	require.NoError(t, err)
	require.Len(t, libs, 1)
	assert.Equal(t, "/slackapi/sdk", libs[0].ID)

	snippets, err := c.Snippets(context.Background(), libs[0].ID, "post message", 5)
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "chat.postMessage", snippets[0].Content)
}

func TestContext7ClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewContext7(server.URL, "bad", nil).SearchLibraries(context.Background(), "slack", "")
	assert.ErrorContains(t, err, "401")
}
