package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/autoflow/internal/core/builder"
	"github.com/agenthands/autoflow/internal/core/model"
	"go.uber.org/zap"
)

const webhookType = "n8n-nodes-base.webhook"

// Deployer is the subset of the n8n client used to publish a workflow.
// *n8n.Client satisfies it.
type Deployer interface {
	TestConnection(ctx context.Context) (string, error)
	CreateWorkflow(ctx context.Context, wf *model.Workflow) (string, error)
	ActivateWorkflow(ctx context.Context, id string) error
	WebhookURL(path string) string
	TestWebhookURL(path string) string
}

type Deployment struct {
	WorkflowID     string `json:"workflow_id"`
	Status         string `json:"status"`
	WebhookURL     string `json:"webhook_url,omitempty"`
	TestWebhookURL string `json:"test_webhook_url,omitempty"`
	N8nVersion     string `json:"n8n_version,omitempty"`
	Active         bool   `json:"active"`
}

// Deploy validates w, checks the instance is reachable and creates the
// workflow there. When activate is set the workflow is switched on after
// creation; an activation failure leaves the created workflow in place.
func Deploy(ctx context.Context, d Deployer, w *model.Workflow, activate bool, logger *zap.Logger) (*Deployment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := builder.Validate(w); err != nil {
		return nil, err
	}

	version, err := d.TestConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("n8n instance unreachable: %w", err)
	}

	id, err := d.CreateWorkflow(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}
	logger.Info("workflow deployed", zap.String("id", id), zap.String("n8n_version", version))

	out := &Deployment{WorkflowID: id, Status: "deployed", N8nVersion: version}
	if path := WebhookPath(w); path != "" {
		out.WebhookURL = d.WebhookURL(path)
		out.TestWebhookURL = d.TestWebhookURL(path)
	}

	if activate {
		if err := d.ActivateWorkflow(ctx, id); err != nil {
			return out, fmt.Errorf("workflow %s created but not activated: %w", id, err)
		}
		out.Active = true
	}
	return out, nil
}

// WebhookPath returns parameters.path of the first webhook node, or "".
func WebhookPath(w *model.Workflow) string {
	for _, n := range w.ExecutableNodes() {
		if n.Type != webhookType {
			continue
		}
		if path, ok := n.Parameters["path"].(string); ok {
			return strings.Trim(path, "/")
		}
	}
	return ""
}
