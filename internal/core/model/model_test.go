package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow() *Workflow {
	return &Workflow{
		Name: "mail to chat",
		Nodes: []Node{
			{ID: "1", Name: "Gmail Trigger", Type: "n8n-nodes-base.emailReadImap", Position: Position{250, 300},
				Parameters: map[string]any{"mailbox": "INBOX", "options": map[string]any{"limit": 5.0}}},
			{ID: "2", Name: "Slack", Type: "n8n-nodes-base.slack", Position: Position{650, 300},
				Parameters: map[string]any{"channel": "#general", "tags": []any{"a"}}},
			{ID: "3", Name: "note", Type: StickyNoteType, Position: Position{-100, 200}},
		},
		Connections: map[string]NodeConnections{
			"Gmail Trigger": {PortMain: {{{Node: "Slack", Type: PortMain, Index: 0}}}},
		},
		Settings: DefaultSettings(),
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleWorkflow()
	cp := orig.Clone()

	cp.Nodes[0].Parameters["mailbox"] = "Archive"
	cp.Nodes[0].Parameters["options"].(map[string]any)["limit"] = 1.0
	cp.Nodes[1].Parameters["tags"].([]any)[0] = "b"
	cp.Connections["Gmail Trigger"][PortMain][0][0].Node = "Other"
	cp.Settings["executionOrder"] = "v0"

	assert.Equal(t, "INBOX", orig.Nodes[0].Parameters["mailbox"])
	assert.Equal(t, 5.0, orig.Nodes[0].Parameters["options"].(map[string]any)["limit"])
	assert.Equal(t, "a", orig.Nodes[1].Parameters["tags"].([]any)[0])
	assert.Equal(t, "Slack", orig.Connections["Gmail Trigger"][PortMain][0][0].Node)
	assert.Equal(t, "v1", orig.Settings["executionOrder"])
}

func TestCloneNil(t *testing.T) {
	var w *Workflow
	assert.Nil(t, w.Clone())
}

func TestExecutableNodesSkipsNotes(t *testing.T) {
	w := sampleWorkflow()
	nodes := w.ExecutableNodes()
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.False(t, n.IsNote())
	}
}

func TestEdges(t *testing.T) {
	w := sampleWorkflow()
	w.Connections["Slack"] = NodeConnections{
		"ai_tool": {{{Node: "Gmail Trigger", Type: "ai_tool"}}},
		PortMain:  {{}, {{Node: "note", Type: PortMain}}},
	}

	edges := w.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, Edge{Source: "Gmail Trigger", Target: "Slack", Port: PortMain}, edges[0])
	assert.Equal(t, Edge{Source: "Slack", Target: "note", Port: PortMain, Output: 1}, edges[1])
	assert.Equal(t, "ai_tool", edges[2].Port)
}

func TestWorkflowWireFormat(t *testing.T) {
	raw, err := json.Marshal(sampleWorkflow())
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	conns := generic["connections"].(map[string]any)["Gmail Trigger"].(map[string]any)["main"].([]any)
	target := conns[0].([]any)[0].(map[string]any)
	assert.Equal(t, "Slack", target["node"])
	assert.Equal(t, "main", target["type"])
	assert.EqualValues(t, 0, target["index"])

	pos := generic["nodes"].([]any)[0].(map[string]any)["position"].([]any)
	assert.Equal(t, []any{250.0, 300.0}, pos)
}

func TestUnmodelledMembersRoundTrip(t *testing.T) {
	raw := `{"name": "w", "pinData": {"A": [{"json": {"x": 1}}]}, "staticData": {"lastId": 7}, "tags": [{"name": "ops"}],
		"nodes": [{"id": "1", "name": "A", "type": "t", "position": [0, 0], "parameters": {},
			"retryOnFail": true, "maxTries": 3, "waitBetweenTries": 1000, "onError": "continueRegularOutput",
			"alwaysOutputData": true, "executeOnce": true, "notes": "n", "notesInFlow": true}],
		"connections": {}, "settings": {}}`

	var w Workflow
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	assert.Equal(t, "A", w.Nodes[0].Name)
	assert.Equal(t, map[string]any{}, w.Nodes[0].Parameters)
	assert.JSONEq(t, `"continueRegularOutput"`, string(w.Nodes[0].Extra["onError"]))
	assert.Contains(t, w.Extra, "pinData")
	assert.NotContains(t, w.Extra, "nodes")

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))

	out, err = json.Marshal(w.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestModelledFieldWinsOverExtra(t *testing.T) {
	n := Node{Name: "A", Type: "t", Extra: map[string]json.RawMessage{"name": json.RawMessage(`"B"`), "notes": json.RawMessage(`"x"`)}}
	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "A", "type": "t", "position": [0, 0], "notes": "x"}`, string(out))
}

func TestCloneCopiesExtra(t *testing.T) {
	orig := sampleWorkflow()
	orig.Extra = map[string]json.RawMessage{"tags": json.RawMessage(`[]`)}
	orig.Nodes[0].Extra = map[string]json.RawMessage{"onError": json.RawMessage(`"stopWorkflow"`)}

	cp := orig.Clone()
	cp.Nodes[0].Extra["onError"][1] = 'X'
	cp.Extra["pinData"] = json.RawMessage(`{}`)

	assert.JSONEq(t, `"stopWorkflow"`, string(orig.Nodes[0].Extra["onError"]))
	assert.NotContains(t, orig.Extra, "pinData")
}

func TestComplexityValid(t *testing.T) {
	assert.True(t, ComplexityMedium.Valid())
	assert.False(t, Complexity("huge").Valid())
	assert.False(t, Complexity("").Valid())
}
