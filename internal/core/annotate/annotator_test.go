package annotate

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testWorkflow() *model.Workflow {
	return &model.Workflow{
		Name: "mail to chat",
		Nodes: []model.Node{
			{ID: "trigger", Name: "Gmail Trigger", Type: "n8n-nodes-base.emailReadImap", Position: model.Position{0, 300}, Parameters: map[string]any{"mailbox": "INBOX"}},
			{ID: "slack1", Name: "Slack", Type: "n8n-nodes-base.slack", Position: model.Position{400, 300}},
			{ID: "old", Name: "existing note", Type: model.StickyNoteType, Position: model.Position{0, 0}},
		},
		Connections: map[string]model.NodeConnections{},
		Settings:    model.DefaultSettings(),
	}
}

func TestAnnotateAddsNotes(t *testing.T) {
	mock := &llm.MockClient{Response: `{"Gmail Trigger": "Reads new mail.", "Slack": "Posts the subject.", "existing note": "ignored"}`}
	a := NewAnnotator(mock, zaptest.NewLogger(t))
	a.NewID = func() string { return "fixed-id" }

	w := testWorkflow()
	out := a.Annotate(context.Background(), w, &model.Intent{Intent: "notify"}, "gmail to slack")

	require.Len(t, out.Nodes, 5)
	assert.Len(t, w.Nodes, 3, "input must not be mutated")

	note := out.Nodes[3]
	assert.Equal(t, model.StickyNoteType, note.Type)
	assert.Equal(t, "fixed-id", note.ID)
	assert.Equal(t, "📝 Gmail Trigger description", note.Name)
	assert.Equal(t, model.Position{-350, 200}, note.Position)
	assert.Equal(t, "## 📌 Gmail Trigger\n\nReads new mail.", note.Parameters["content"])
	assert.Equal(t, 300, note.Parameters["width"])
	assert.Equal(t, 200, note.Parameters["height"])

	assert.Equal(t, model.Position{50, 200}, out.Nodes[4].Position)

	prompt := mock.Calls[0].UserPrompt
	assert.Contains(t, prompt, "**Gmail Trigger** (n8n-nodes-base.emailReadImap)")
	assert.NotContains(t, prompt, "existing note")
	assert.True(t, mock.Calls[0].Options.ForceJSON)
}

func TestAnnotateSkipsMissingDescriptions(t *testing.T) {
	a := NewAnnotator(&llm.MockClient{Response: `{"Slack": "Posts.", "Gmail Trigger": 42}`}, nil)
	out := a.Annotate(context.Background(), testWorkflow(), nil, "x")

	require.Len(t, out.Nodes, 4)
	assert.Equal(t, "📝 Slack description", out.Nodes[3].Name)
}

func TestAnnotateSwallowsFailures(t *testing.T) {
	for name, mock := range map[string]*llm.MockClient{
		"gateway error": {Err: errors.New("quota exceeded")},
		"not json":      {Response: "Sure! Here are the descriptions."},
	} {
		t.Run(name, func(t *testing.T) {
			w := testWorkflow()
			out := NewAnnotator(mock, nil).Annotate(context.Background(), w, nil, "x")
			assert.Same(t, w, out)
			assert.Len(t, out.Nodes, 3)
		})
	}
}

func TestAnnotateNotesOnlyWorkflow(t *testing.T) {
	mock := &llm.MockClient{Response: `{}`}
	w := &model.Workflow{Name: "n", Nodes: []model.Node{{Name: "n", Type: model.StickyNoteType}}}

	out := NewAnnotator(mock, nil).Annotate(context.Background(), w, nil, "x")
	assert.Same(t, w, out)
	assert.Zero(t, mock.CallCount())
}

func TestDefaultIDsAreUnique(t *testing.T) {
	a := NewAnnotator(&llm.MockClient{Response: `{"Gmail Trigger": "a", "Slack": "b"}`}, nil)
	out := a.Annotate(context.Background(), testWorkflow(), nil, "x")

	require.Len(t, out.Nodes, 5)
	assert.NotEqual(t, out.Nodes[3].ID, out.Nodes[4].ID)
	assert.Len(t, out.Nodes[3].ID, 36)
}
