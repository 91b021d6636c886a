// Package intent turns free-form automation requests into structured intent
// records.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/common"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/llm"
	"go.uber.org/zap"
)

const temperature = 0.3

type Analyzer struct {
	LLM    llm.Client
	Logger *zap.Logger
}

func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{LLM: client, Logger: logger}
}

// Analyze extracts an intent record from userText with one completion call.
func (a *Analyzer) Analyze(ctx context.Context, userText string) (*model.Intent, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, apperr.Analysis("request text is empty")
	}

	prompt := fmt.Sprintf(analyzePrompt, userText, responseShape)
	return a.run(ctx, prompt)
}

// ReanalyzeWithModification regenerates the whole record with the delta
// applied. The result replaces original; no field is carried over from it.
func (a *Analyzer) ReanalyzeWithModification(ctx context.Context, original *model.Intent, modificationText string) (*model.Intent, error) {
	if original == nil {
		return nil, apperr.Analysis("original analysis is required")
	}
	if strings.TrimSpace(modificationText) == "" {
		return nil, apperr.Analysis("modification request is empty")
	}

	prompt := fmt.Sprintf(modifyPrompt, common.PrettyJSON(original), modificationText, responseShape)
	return a.run(ctx, prompt)
}

func (a *Analyzer) run(ctx context.Context, prompt string) (*model.Intent, error) {
	response, err := a.LLM.Complete(ctx, systemPrompt, prompt, llm.Options{
		Temperature: temperature,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze intent: %w", err)
	}

	result, err := parse(response)
	if err != nil {
		a.Logger.Warn("rejected intent output", zap.Error(err))
		return nil, err
	}

	a.Logger.Debug("intent analyzed",
		zap.String("intent", result.Intent),
		zap.String("trigger", result.Trigger.Service),
		zap.Int("actions", len(result.Actions)),
		zap.Strings("required_nodes", result.RequiredNodes))
	return result, nil
}

// parse is the boundary between model text and a typed record: extract the
// object, check it against the schema, decode, then check the invariants.
func parse(response string) (*model.Intent, error) {
	doc, err := common.ExtractJSON(response)
	if err != nil {
		e := apperr.Wrap(apperr.KindAnalysis, err, "model output is not a JSON object")
		e.Raw = response
		return nil, e
	}

	problems, err := checkSchema(doc)
	if err != nil {
		e := apperr.Wrap(apperr.KindAnalysis, err, "model output is not valid JSON")
		e.Raw = response
		return nil, e
	}
	if len(problems) > 0 {
		e := apperr.Analysis("intent does not match the expected shape: %s", joinProblems(problems))
		e.Raw = response
		return nil, e
	}

	var result model.Intent
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		e := apperr.Wrap(apperr.KindAnalysis, err, "failed to decode intent")
		e.Raw = response
		return nil, e
	}

	if err := Validate(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Validate checks the record invariants. It is also applied to intent
// records supplied by callers.
func Validate(in *model.Intent) error {
	if in == nil {
		return apperr.Analysis("missing intent analysis")
	}
	if strings.TrimSpace(in.Intent) == "" {
		return apperr.Analysis("missing intent in analysis")
	}
	if strings.TrimSpace(in.Trigger.Service) == "" || strings.TrimSpace(in.Trigger.Event) == "" {
		return apperr.Analysis("missing trigger information")
	}
	if len(in.Actions) == 0 {
		return apperr.Analysis("missing actions in analysis")
	}
	for i, a := range in.Actions {
		if strings.TrimSpace(a.Service) == "" || strings.TrimSpace(a.Action) == "" {
			return apperr.Analysis("action %d needs service and action", i)
		}
	}
	if len(in.RequiredNodes) == 0 {
		return apperr.Analysis("missing required nodes")
	}
	for i, n := range in.RequiredNodes {
		if strings.TrimSpace(n) == "" {
			return apperr.Analysis("required node %d is blank", i)
		}
	}
	if in.Complexity != "" && !in.Complexity.Valid() {
		return apperr.Analysis("unknown complexity %q", in.Complexity)
	}
	return nil
}
