package builder

import (
	"encoding/json"
	"fmt"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/common"
	"github.com/agenthands/autoflow/internal/core/model"
)

// draftNode keeps the position untyped until it has been checked. The rest
// of the node, unmodelled members included, decodes into the embedded Node.
type draftNode struct {
	model.Node
	Position any
}

func (d *draftNode) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if raw, ok := fields["position"]; ok {
		if err := json.Unmarshal(raw, &d.Position); err != nil {
			return err
		}
		delete(fields, "position")
	}
	rest, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(rest, &d.Node)
}

type draftWorkflow struct {
	ID          string                           `json:"id,omitempty"`
	Name        string                           `json:"name"`
	Nodes       []draftNode                      `json:"nodes"`
	Connections map[string]model.NodeConnections `json:"connections"`
	Settings    map[string]any                   `json:"settings"`
}


// Parse decodes model output into a validated workflow. Undecodable text
// is a GenerationError carrying the raw output; structural problems are a
// ValidationError. Absent settings get the default; present ones are kept.
// Nothing else is added: nodes without parameters and graphs without
// connections stay that way, and unmodelled members pass through.
func Parse(raw string) (*model.Workflow, error) {
	doc, err := common.ExtractJSON(raw)
	if err != nil {
		return nil, apperr.Generation(raw, err, "model output is not a workflow")
	}

	var draft draftWorkflow
	if err := json.Unmarshal([]byte(doc), &draft); err != nil {
		return nil, apperr.Generation(raw, err, "failed to decode workflow")
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &members); err != nil {
		return nil, apperr.Generation(raw, err, "failed to decode workflow")
	}
	for _, k := range []string{"id", "name", "nodes", "connections", "settings"} {
		delete(members, k)
	}
	if len(members) == 0 {
		members = nil
	}

	nodes := make([]nodeView, len(draft.Nodes))
	for i, n := range draft.Nodes {
		nodes[i] = nodeView{id: n.ID, name: n.Name, typ: n.Type, position: n.Position}
	}
	if err := validate(draft.Name, nodes, draft.Connections); err != nil {
		return nil, err
	}

	wf := &model.Workflow{
		ID:          draft.ID,
		Name:        draft.Name,
		Nodes:       make([]model.Node, len(draft.Nodes)),
		Connections: draft.Connections,
		Settings:    draft.Settings,
		Extra:       members,
	}
	for i, n := range draft.Nodes {
		node := n.Node
		node.Position = toPosition(n.Position)
		wf.Nodes[i] = node
	}
	if wf.Settings == nil {
		wf.Settings = model.DefaultSettings()
	}
	return wf, nil
}

// Validate applies the structural checks to an already typed workflow, such
// as one supplied by a caller for deployment or repair.
func Validate(w *model.Workflow) error {
	if w == nil {
		return apperr.Validation("workflow", "workflow is required")
	}
	nodes := make([]nodeView, len(w.Nodes))
	for i, n := range w.Nodes {
		nodes[i] = nodeView{id: n.ID, name: n.Name, typ: n.Type, position: []any{n.Position[0], n.Position[1]}}
	}
	return validate(w.Name, nodes, w.Connections)
}

func toPosition(v any) model.Position {
	arr := v.([]any)
	return model.Position{arr[0].(float64), arr[1].(float64)}
}

func nodeLabel(n nodeView, index int) string {
	if n.name != "" {
		return n.name
	}
	if n.id != "" {
		return n.id
	}
	return fmt.Sprintf("#%d", index)
}
