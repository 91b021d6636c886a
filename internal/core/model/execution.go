package model

import "time"

type ExecutionStatus string

const (
	ExecutionPending ExecutionStatus = "pending"
	ExecutionRunning ExecutionStatus = "running"
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionError   ExecutionStatus = "error"
)

type ErrorDetails struct {
	Node      string         `json:"node"`
	Message   string         `json:"message"`
	Stack     string         `json:"stack,omitempty"`
	InputData map[string]any `json:"input_data,omitempty"`
}

// Execution is the failure telemetry the repair loop consumes.
type Execution struct {
	ID             string          `json:"id,omitempty"`
	WorkflowID     string          `json:"workflow_id,omitempty"`
	N8nExecutionID string          `json:"n8n_execution_id,omitempty"`
	Status         ExecutionStatus `json:"status,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	ErrorDetails   *ErrorDetails   `json:"error_details,omitempty"`
	OutputData     map[string]any  `json:"output_data,omitempty"`
}
