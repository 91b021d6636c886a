package builder

import (
	"context"

	"github.com/agenthands/autoflow/internal/core/model"
)

// MockAnnotator appends one fixed note and records how often it ran.
type MockAnnotator struct {
	Calls int
}

func (m *MockAnnotator) Annotate(ctx context.Context, w *model.Workflow, in *model.Intent, userText string) *model.Workflow {
	m.Calls++
	out := w.Clone()
	out.Nodes = append(out.Nodes, model.Node{Name: "note", Type: model.StickyNoteType})
	return out
}

// StaticCatalog serves a fixed list.
type StaticCatalog []model.Capability

func (c StaticCatalog) List(ctx context.Context) []model.Capability {
	return c
}
