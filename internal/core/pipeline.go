// Package core wires the synthesis stages into one pipeline per provider
// client.
package core

import (
	"context"
	"errors"
	"strings"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/config"
	"github.com/agenthands/autoflow/internal/core/annotate"
	"github.com/agenthands/autoflow/internal/core/builder"
	"github.com/agenthands/autoflow/internal/core/enrich"
	"github.com/agenthands/autoflow/internal/core/intent"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/core/registry"
	"github.com/agenthands/autoflow/internal/core/repair"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/agenthands/autoflow/internal/metrics"
	"go.uber.org/zap"
)

const (
	stageAnalyze  = "analyze"
	stageModify   = "modify"
	stageGenerate = "generate"
	stageDebug    = "debug"
)

// Deps are the collaborators shared by every pipeline. Registry is normally
// one instance per process so the catalog cache is shared; Docs may be nil.
type Deps struct {
	Registry *registry.Registry
	Docs     enrich.Docs
	Builder  config.BuilderConfig
	Repair   config.RepairConfig
	Logger   *zap.Logger
}

type Pipeline struct {
	Analyzer *intent.Analyzer
	Enricher *enrich.Enricher
	Builder  *builder.Builder
	Registry *registry.Registry
	Repairer *repair.Repairer

	client      llm.Client
	maxAttempts int
	logger      *zap.Logger
}

// Synthesis is the result of running analysis and generation back to back.
type Synthesis struct {
	Intent   *model.Intent   `json:"intent_analysis"`
	Workflow *model.Workflow `json:"workflow"`
}

func NewPipeline(client llm.Client, deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = registry.New(nil, registry.WithLogger(logger))
	}
	logger = logger.With(zap.String("provider", string(client.Provider())))

	var annotator builder.Annotator
	if deps.Builder.Annotate {
		annotator = annotate.NewAnnotator(client, logger)
	}

	return &Pipeline{
		Analyzer:    intent.NewAnalyzer(client, logger),
		Enricher:    enrich.NewEnricher(deps.Docs, logger),
		Builder:     builder.NewBuilder(client, reg, annotator, builder.Options{StrictVocabulary: deps.Builder.StrictVocabulary}, logger),
		Registry:    reg,
		Repairer:    repair.NewRepairer(client, logger),
		client:      client,
		maxAttempts: deps.Repair.MaxAttempts,
		logger:      logger,
	}
}

// Close releases the provider client.
func (p *Pipeline) Close() error {
	return llm.Close(p.client)
}

func (p *Pipeline) Analyze(ctx context.Context, userText string) (*model.Intent, error) {
	in, err := p.Analyzer.Analyze(ctx, userText)
	if err != nil {
		return nil, p.fail(stageAnalyze, err)
	}
	return in, nil
}

func (p *Pipeline) Modify(ctx context.Context, original *model.Intent, modificationText string) (*model.Intent, error) {
	if original == nil {
		return nil, p.fail(stageModify, apperr.Analysis("original analysis is required"))
	}
	if strings.TrimSpace(modificationText) == "" {
		return nil, p.fail(stageModify, apperr.Analysis("modification request is empty"))
	}
	in, err := p.Analyzer.ReanalyzeWithModification(ctx, original, modificationText)
	if err != nil {
		return nil, p.fail(stageModify, err)
	}
	return in, nil
}

// Generate checks an inbound intent record, gathers documentation context
// and builds the graph. Enrichment never fails the request.
func (p *Pipeline) Generate(ctx context.Context, in *model.Intent, userText string) (*model.Workflow, error) {
	if err := intent.Validate(in); err != nil {
		return nil, p.fail(stageGenerate, err)
	}

	contextText := p.Enricher.Enrich(ctx, userText, in.RequiredNodes)
	wf, err := p.Builder.Build(ctx, in, userText, contextText)
	if err != nil {
		return nil, p.fail(stageGenerate, err)
	}
	return wf, nil
}

// Synthesize runs analysis then generation for one request.
func (p *Pipeline) Synthesize(ctx context.Context, userText string) (*Synthesis, error) {
	in, err := p.Analyze(ctx, userText)
	if err != nil {
		return nil, err
	}
	wf, err := p.Generate(ctx, in, userText)
	if err != nil {
		return nil, err
	}
	return &Synthesis{Intent: in, Workflow: wf}, nil
}

// Debug runs a repair session. A zero MaxAttempts takes the configured bound.
func (p *Pipeline) Debug(ctx context.Context, req repair.Request) (*repair.Result, error) {
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = p.maxAttempts
	}
	res, err := p.Repairer.DebugWithRetry(ctx, req)
	if err != nil {
		return nil, p.fail(stageDebug, err)
	}
	return res, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	kind := ErrorKind(err)
	metrics.PipelineFailures.WithLabelValues(stage, kind).Inc()
	p.logger.Warn("pipeline stage failed", zap.String("stage", stage), zap.String("kind", kind), zap.Error(err))
	return err
}

// ProviderErrorKind labels gateway failures that carry no pipeline kind.
const ProviderErrorKind = "PROVIDER_ERROR"

// ErrorKind names the failure class of err for metrics and responses.
func ErrorKind(err error) string {
	if k := apperr.KindOf(err); k != "" {
		return string(k)
	}
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return ProviderErrorKind
	}
	return "UNKNOWN"
}

// Open resolves a provider name and key into a pipeline using the provider
// settings in cfg. cfg also supplies deps.Builder and deps.Repair.
func Open(ctx context.Context, cfg *config.Config, provider, apiKey string, deps Deps) (*Pipeline, error) {
	p, ok := llm.ParseProvider(provider)
	if !ok {
		return nil, apperr.Configuration("unsupported llm provider: %s", provider)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	client, err := llm.NewClient(ctx, p, apiKey, cfg.Provider(string(p)), deps.Logger)
	if err != nil {
		return nil, err
	}
	deps.Builder, deps.Repair = cfg.Builder, cfg.Repair
	return NewPipeline(client, deps), nil
}
