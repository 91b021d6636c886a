package model

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type ErrorAnalysis struct {
	ErrorType    string   `json:"error_type"`
	AffectedNode string   `json:"affected_node"`
	RootCause    string   `json:"root_cause"`
	Severity     Severity `json:"severity"`
}

// SuggestedFix carries a parameter patch keyed by node name.
type SuggestedFix struct {
	Description string                    `json:"description"`
	CodeChanges map[string]map[string]any `json:"code_changes,omitempty"`
	ManualSteps []string                  `json:"manual_steps,omitempty"`
}

type Diagnosis struct {
	ErrorAnalysis ErrorAnalysis `json:"error_analysis"`
	SuggestedFix  SuggestedFix  `json:"suggested_fix"`
	AutoApply     bool          `json:"auto_apply"`
}
