package repair

import (
	"context"
	"sort"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/metrics"
	"go.uber.org/zap"
)

type Request struct {
	Workflow    *model.Workflow
	Execution   *model.Execution
	Screenshot  string
	MaxAttempts int
	// QuickDiagnose answers from the known failure signatures first and
	// skips the model when one matches.
	QuickDiagnose bool
}

type Result struct {
	Diagnosis     *model.Diagnosis `json:"analysis"`
	FixedWorkflow *model.Workflow  `json:"fixed_workflow,omitempty"`
	Success       bool             `json:"success"`
	Attempts      int              `json:"attempts"`
	// Pattern is the id of the known failure signature that answered a
	// quick diagnosis.
	Pattern string `json:"pattern,omitempty"`
	// Unmatched lists patch targets that name no node of the workflow.
	Unmatched []string `json:"unmatched_nodes,omitempty"`
}

// DebugWithRetry runs one repair session bounded by MaxAttempts.
//
// Every diagnosis settles the session: auto_apply=false ends it for manual
// handling, auto_apply=true ends it with success and a patched copy of the
// workflow. Patch entries naming no node are reported in Unmatched. There is
// no re-diagnosis within a call, so a session takes one attempt. The input
// workflow is never modified.
func (r *Repairer) DebugWithRetry(ctx context.Context, req Request) (*Result, error) {
	if req.Workflow == nil {
		return nil, apperr.New(apperr.KindDiagnosis, "workflow is required")
	}
	if req.MaxAttempts < 0 {
		return nil, apperr.New(apperr.KindDiagnosis, "max attempts must not be negative")
	}

	if req.QuickDiagnose && req.Execution != nil && req.Execution.ErrorDetails != nil {
		if p, ok := QuickDiagnose(req.Execution.ErrorDetails.Message); ok {
			r.Logger.Info("matched known failure", zap.String("pattern", p.ID))
			metrics.RepairSessions.WithLabelValues("pattern").Inc()
			return &Result{Diagnosis: p.Diagnosis(req.Execution.ErrorDetails.Node), Attempts: 1, Pattern: p.ID}, nil
		}
	}

	d, err := r.diagnose(ctx, req)
	if err != nil {
		metrics.RepairSessions.WithLabelValues("error").Inc()
		return nil, err
	}
	if !d.AutoApply {
		metrics.RepairSessions.WithLabelValues("manual").Inc()
		return &Result{Diagnosis: d, Attempts: 1}, nil
	}

	fixed, applied := ApplyFix(req.Workflow, d)
	unmatched := unmatchedTargets(d, applied)
	if len(unmatched) > 0 {
		r.Logger.Warn("fix names unknown nodes", zap.Strings("nodes", unmatched))
	}
	r.Logger.Info("applied fix", zap.Strings("nodes", applied))
	metrics.RepairSessions.WithLabelValues("fixed").Inc()
	return &Result{Diagnosis: d, FixedWorkflow: fixed, Success: true, Attempts: 1, Unmatched: unmatched}, nil
}

func (r *Repairer) diagnose(ctx context.Context, req Request) (*model.Diagnosis, error) {
	if req.Screenshot != "" {
		return r.diagnoseScreenshot(ctx, req.Screenshot, req.Execution)
	}
	return r.diagnoseLog(ctx, req.Execution, req.Workflow)
}

// unmatchedTargets returns the patched node names missing from applied, sorted.
func unmatchedTargets(d *model.Diagnosis, applied []string) []string {
	hit := make(map[string]bool, len(applied))
	for _, name := range applied {
		hit[name] = true
	}
	var out []string
	for name := range d.SuggestedFix.CodeChanges {
		if !hit[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
