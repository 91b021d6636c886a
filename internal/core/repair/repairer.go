// Package repair diagnoses failed executions and patches workflow
// parameters when the diagnosis allows it.
package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/common"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/core/topology"
	"github.com/agenthands/autoflow/internal/llm"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts  = 3
	temperature         = 0.2
	screenshotMaxTokens = 1000
)

type Repairer struct {
	LLM    llm.Client
	Logger *zap.Logger
}

func NewRepairer(client llm.Client, logger *zap.Logger) *Repairer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repairer{LLM: client, Logger: logger}
}

// Diagnose asks the model for a structured diagnosis of a failed execution.
func (r *Repairer) Diagnose(ctx context.Context, exec *model.Execution, w *model.Workflow) (*model.Diagnosis, error) {
	return r.diagnoseLog(ctx, exec, w)
}

// DiagnoseScreenshot diagnoses from a base64 PNG of the editor plus the
// execution's error details.
func (r *Repairer) DiagnoseScreenshot(ctx context.Context, screenshot string, exec *model.Execution) (*model.Diagnosis, error) {
	return r.diagnoseScreenshot(ctx, screenshot, exec)
}

type errorContext struct {
	WorkflowName      string          `json:"workflow_name"`
	ErrorNode         string          `json:"error_node,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ErrorStack        string          `json:"error_stack,omitempty"`
	DownstreamNodes   []string        `json:"downstream_nodes,omitempty"`
	InputData         map[string]any  `json:"input_data,omitempty"`
	WorkflowStructure []nodeStructure `json:"workflow_structure"`
}

type nodeStructure struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

func (r *Repairer) diagnoseLog(ctx context.Context, exec *model.Execution, w *model.Workflow) (*model.Diagnosis, error) {
	if exec == nil {
		return nil, apperr.New(apperr.KindDiagnosis, "execution telemetry is required")
	}
	if w == nil {
		return nil, apperr.New(apperr.KindDiagnosis, "workflow is required")
	}

	ec := errorContext{WorkflowName: w.Name}
	if d := exec.ErrorDetails; d != nil {
		ec.ErrorNode, ec.ErrorMessage, ec.ErrorStack, ec.InputData = d.Node, d.Message, d.Stack, d.InputData
		if reach := topology.Reachable(w, d.Node); len(reach) > 1 {
			ec.DownstreamNodes = reach[1:]
		}
	}
	for _, n := range w.ExecutableNodes() {
		ec.WorkflowStructure = append(ec.WorkflowStructure, nodeStructure{Name: n.Name, Type: n.Type, Parameters: n.Parameters})
	}

	prompt := fmt.Sprintf("Analyze the following workflow error:\n\n%s\n\nResponse format:\n%s", common.PrettyJSON(ec), diagnosisShape)

	response, err := r.LLM.Complete(ctx, logSystemPrompt, prompt, llm.Options{
		Temperature: temperature,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, apperr.Diagnosis(err, "failed to analyze execution log")
	}
	return parseDiagnosis(response)
}

func (r *Repairer) diagnoseScreenshot(ctx context.Context, screenshot string, exec *model.Execution) (*model.Diagnosis, error) {
	if strings.TrimSpace(screenshot) == "" {
		return nil, apperr.New(apperr.KindDiagnosis, "screenshot is empty")
	}

	var details *model.ErrorDetails
	if exec != nil {
		details = exec.ErrorDetails
	}
	prompt := fmt.Sprintf("Analyze this n8n workflow screen. Execution log: %s\n\nResponse format:\n%s", common.PrettyJSON(details), diagnosisShape)

	response, err := r.LLM.Complete(ctx, screenshotSystemPrompt, prompt, llm.Options{
		Temperature: temperature,
		ForceJSON:   true,
		MaxTokens:   screenshotMaxTokens,
		Image:       screenshot,
	})
	if err != nil {
		return nil, apperr.Diagnosis(err, "failed to analyze screenshot")
	}
	return parseDiagnosis(response)
}

// parseDiagnosis treats the model output as untrusted: it must decode and
// carry a root cause with a known severity.
func parseDiagnosis(response string) (*model.Diagnosis, error) {
	doc, err := common.ExtractJSON(response)
	if err != nil {
		return nil, apperr.Diagnosis(err, "diagnosis is not a JSON object")
	}
	var d model.Diagnosis
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return nil, apperr.Diagnosis(err, "failed to decode diagnosis")
	}

	if strings.TrimSpace(d.ErrorAnalysis.RootCause) == "" {
		return nil, apperr.New(apperr.KindDiagnosis, "diagnosis has no root cause")
	}
	switch d.ErrorAnalysis.Severity {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
	default:
		return nil, apperr.New(apperr.KindDiagnosis, "diagnosis has unknown severity %q", d.ErrorAnalysis.Severity)
	}
	return &d, nil
}

// ApplyFix merges the diagnosis patch into a deep copy of w. Keys of each
// patch overwrite parameters of the node with that name; other parameters
// are kept. It returns the copy and the names of nodes actually patched.
func ApplyFix(w *model.Workflow, d *model.Diagnosis) (*model.Workflow, []string) {
	out := w.Clone()
	if d == nil {
		return out, nil
	}

	names := make([]string, 0, len(d.SuggestedFix.CodeChanges))
	for name := range d.SuggestedFix.CodeChanges {
		names = append(names, name)
	}
	sort.Strings(names)

	var applied []string
	for _, name := range names {
		node, ok := out.NodeByName(name)
		if !ok {
			continue
		}
		if node.Parameters == nil {
			node.Parameters = map[string]any{}
		}
		for k, v := range d.SuggestedFix.CodeChanges[name] {
			node.Parameters[k] = v
		}
		applied = append(applied, name)
	}
	return out, applied
}
