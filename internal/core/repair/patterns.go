package repair

import (
	"fmt"
	"regexp"

	"github.com/agenthands/autoflow/internal/core/model"
)

// Pattern is a known failure signature with a canned remedy.
type Pattern struct {
	ID          string
	Expr        *regexp.Regexp
	Description string
	Solution    string
}

var patterns = []Pattern{
	{
		ID:          "authentication_failed",
		Expr:        regexp.MustCompile(`(?i)authentication.*failed`),
		Description: "API authentication failed",
		Solution:    "Check that the API key is valid and re-enter it under n8n Credentials.",
	},
	{
		ID:          "undefined_property",
		Expr:        regexp.MustCompile(`(?i)undefined.*property`),
		Description: "Reference to a data field that does not exist",
		Solution:    "Check that the previous node actually outputs this field.",
	},
	{
		ID:          "timeout",
		Expr:        regexp.MustCompile(`(?i)timeout`),
		Description: "API request timed out",
		Solution:    "Increase the timeout on the HTTP Request node or check the API status.",
	},
	{
		ID:          "rate_limit",
		Expr:        regexp.MustCompile(`(?i)rate.*limit`),
		Description: "API rate limit reached",
		Solution:    "Space out the calls or add a Wait node.",
	},
	{
		ID:          "invalid_json",
		Expr:        regexp.MustCompile(`(?i)invalid.*json`),
		Description: "JSON parse error",
		Solution:    "Check the API response format and add a JSON parse step.",
	},
}

// QuickDiagnose matches message against the known signatures without a
// model call. The first matching pattern wins.
func QuickDiagnose(message string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Expr.MatchString(message) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Summary renders the pattern as a two-line hint.
func (p Pattern) Summary() string {
	return fmt.Sprintf("%s\nSolution: %s", p.Description, p.Solution)
}

// Diagnosis expresses a pattern match as a manual-handling diagnosis. The
// fix description is the pattern summary.
func (p Pattern) Diagnosis(node string) *model.Diagnosis {
	if node == "" {
		node = "unknown"
	}
	return &model.Diagnosis{
		ErrorAnalysis: model.ErrorAnalysis{
			ErrorType:    p.ID,
			AffectedNode: node,
			RootCause:    p.Description,
			Severity:     model.SeverityMedium,
		},
		SuggestedFix: model.SuggestedFix{
			Description: p.Summary(),
			ManualSteps: []string{p.Solution},
		},
		AutoApply: false,
	}
}
