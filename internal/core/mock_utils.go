package core

import (
	"context"
	"fmt"

	"github.com/agenthands/autoflow/internal/core/model"
)

// MockDeployer records created workflows in memory.
type MockDeployer struct {
	Version     string
	ConnErr     error
	CreateErr   error
	ActivateErr error

	Created   []*model.Workflow
	Activated []string
}

func (m *MockDeployer) TestConnection(ctx context.Context) (string, error) {
	if m.ConnErr != nil {
		return "", m.ConnErr
	}
	return m.Version, nil
}

func (m *MockDeployer) CreateWorkflow(ctx context.Context, wf *model.Workflow) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Created = append(m.Created, wf)
	return fmt.Sprintf("wf-%d", len(m.Created)), nil
}

func (m *MockDeployer) ActivateWorkflow(ctx context.Context, id string) error {
	if m.ActivateErr != nil {
		return m.ActivateErr
	}
	m.Activated = append(m.Activated, id)
	return nil
}

func (m *MockDeployer) WebhookURL(path string) string {
	return "http://n8n.test/webhook/" + path
}

func (m *MockDeployer) TestWebhookURL(path string) string {
	return "http://n8n.test/webhook-test/" + path
}
