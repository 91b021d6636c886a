// Package builder generates workflow graphs from intent records and checks
// their structure.
package builder

import (
	"context"
	"fmt"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/core/topology"
	"github.com/agenthands/autoflow/internal/llm"
	applog "github.com/agenthands/autoflow/internal/log"
	"go.uber.org/zap"
)

const (
	temperature = 0.1
	rawLogLimit = 500
)

// Catalog supplies the allowed node types. *registry.Registry satisfies it.
type Catalog interface {
	List(ctx context.Context) []model.Capability
}

// Annotator decorates a finished graph. It must not fail.
type Annotator interface {
	Annotate(ctx context.Context, w *model.Workflow, in *model.Intent, userText string) *model.Workflow
}

type Options struct {
	// StrictVocabulary rejects node types absent from the catalog instead of
	// logging them.
	StrictVocabulary bool
}

type Builder struct {
	llm       llm.Client
	catalog   Catalog
	annotator Annotator
	opts      Options
	logger    *zap.Logger
}

// NewBuilder wires a builder. annotator may be nil to skip notes.
func NewBuilder(client llm.Client, catalog Catalog, annotator Annotator, opts Options, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{llm: client, catalog: catalog, annotator: annotator, opts: opts, logger: logger}
}

// Build asks the model for a graph and returns it only if it passes every
// structural check.
func (b *Builder) Build(ctx context.Context, in *model.Intent, userText, contextText string) (*model.Workflow, error) {
	if in == nil {
		return nil, apperr.Analysis("intent analysis is required")
	}

	catalog := b.catalog.List(ctx)

	response, err := b.llm.Complete(ctx, systemPrompt(catalog), userPrompt(in, userText, contextText), llm.Options{
		Temperature: temperature,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}

	wf, err := Parse(response)
	if err != nil {
		b.logger.Warn("rejected generated workflow", zap.Error(err), zap.String("raw", applog.Truncate(response, rawLogLimit)))
		return nil, err
	}

	if err := b.checkVocabulary(wf, catalog); err != nil {
		return nil, err
	}
	b.checkTopology(wf)

	if b.annotator != nil {
		wf = b.annotator.Annotate(ctx, wf, in, userText)
	}

	b.logger.Info("workflow built",
		zap.String("name", wf.Name),
		zap.Int("nodes", len(wf.Nodes)),
		zap.Int("sources", len(wf.Connections)))
	return wf, nil
}

func (b *Builder) checkVocabulary(wf *model.Workflow, catalog []model.Capability) error {
	allowed := make(map[string]bool, len(catalog))
	for _, c := range catalog {
		allowed[c.Name] = true
	}

	for _, n := range wf.ExecutableNodes() {
		if allowed[n.Type] {
			continue
		}
		if b.opts.StrictVocabulary {
			return apperr.Validation(n.Label(), "node %s uses unknown type %q", n.Label(), n.Type)
		}
		b.logger.Warn("node type outside catalog", zap.String("node", n.Label()), zap.String("type", n.Type))
	}
	return nil
}

func (b *Builder) checkTopology(wf *model.Workflow) {
	if components := topology.Components(wf); len(components) > 1 {
		b.logger.Warn("workflow has disconnected nodes", zap.Int("components", len(components)))
	}
	if len(wf.ExecutableNodes()) > 0 && len(topology.Roots(wf)) == 0 {
		b.logger.Warn("workflow has no entry node")
	}
}
