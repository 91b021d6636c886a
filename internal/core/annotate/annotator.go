// Package annotate attaches human-readable sticky notes to generated
// workflows.
package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenthands/autoflow/internal/core/common"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	temperature   = 0.3
	noteOffsetX   = -350
	noteOffsetY   = -100
	noteWidth     = 300
	noteHeight    = 200
	paramsPreview = 100
)

const systemPrompt = "You explain n8n workflow nodes. Describe each node's role clearly for a beginner."

type Annotator struct {
	LLM    llm.Client
	Logger *zap.Logger
	NewID  func() string
}

func NewAnnotator(client llm.Client, logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{LLM: client, Logger: logger, NewID: uuid.NewString}
}

// Annotate returns a copy of w with one note per described node. Any
// failure is logged and w is returned as it was.
func (a *Annotator) Annotate(ctx context.Context, w *model.Workflow, in *model.Intent, userText string) *model.Workflow {
	subjects := w.ExecutableNodes()
	if len(subjects) == 0 {
		return w
	}

	descriptions, err := a.describe(ctx, subjects, in, userText)
	if err != nil {
		a.Logger.Warn("skipping annotations", zap.Error(err))
		return w
	}

	out := w.Clone()
	added := 0
	for i, n := range subjects {
		desc := descriptions[key(n, i)]
		if desc == "" {
			continue
		}
		out.Nodes = append(out.Nodes, a.note(n, desc))
		added++
	}
	a.Logger.Debug("annotated workflow", zap.Int("notes", added), zap.Int("nodes", len(subjects)))
	return out
}

func (a *Annotator) note(n model.Node, desc string) model.Node {
	return model.Node{
		ID:          a.NewID(),
		Name:        fmt.Sprintf("📝 %s description", n.Label()),
		Type:        model.StickyNoteType,
		TypeVersion: 1,
		Position:    model.Position{n.Position[0] + noteOffsetX, n.Position[1] + noteOffsetY},
		Parameters: map[string]any{
			"height":  noteHeight,
			"width":   noteWidth,
			"content": fmt.Sprintf("## 📌 %s\n\n%s", n.Label(), desc),
		},
	}
}

func key(n model.Node, index int) string {
	if l := n.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("node-%d", index)
}

func (a *Annotator) describe(ctx context.Context, nodes []model.Node, in *model.Intent, userText string) (map[string]string, error) {
	response, err := a.LLM.Complete(ctx, systemPrompt, prompt(nodes, in, userText), llm.Options{
		Temperature: temperature,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate node descriptions: %w", err)
	}

	raw, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node descriptions: %w", err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out[k] = s
		}
	}
	return out, nil
}

func prompt(nodes []model.Node, in *model.Intent, userText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %q\n\n", userText)
	if in != nil {
		fmt.Fprintf(&b, "Workflow analysis:\n- Intent: %s\n- Trigger: %s - %s\n\n", in.Intent, in.Trigger.Service, in.Trigger.Event)
	}
	b.WriteString("Write a description a beginner can follow for each node below:\n\n")

	shape := make(map[string]string, len(nodes))
	for i, n := range nodes {
		params, _ := json.Marshal(n.Parameters)
		fmt.Fprintf(&b, "%d. **%s** (%s)\n   Parameters: %s\n\n", i+1, n.Label(), n.Type, truncate(string(params), paramsPreview))
		shape[key(n, i)] = "description"
	}

	b.WriteString(`Rules:
1. Three to five lines per node.
2. State what the node does and which settings it needs.
3. If the node needs credentials, say which ones, where to obtain them and how to add them in n8n.
4. Write step by step so a beginner can follow.

Return JSON mapping each node name to its description:
`)
	b.WriteString(common.PrettyJSON(shape))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
