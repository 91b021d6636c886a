package registry

import (
	"slices"
	"strings"
	"unicode"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/n8n"
)

const builtinPrefix = "n8n-nodes-base."

func toCapability(t n8n.NodeType) model.Capability {
	display := t.DisplayName
	if display == "" {
		display = t.Name
	}
	return model.Capability{
		Name:        t.Name,
		DisplayName: display,
		Description: t.Description,
		Category:    categorize(t),
		IsBuiltIn:   strings.HasPrefix(t.Name, builtinPrefix),
	}
}

// categorize derives the category from the type name. "ai" must be a whole
// camel-case word of the local name, otherwise "gmail" would read as AI.
func categorize(t n8n.NodeType) model.Category {
	name := strings.ToLower(t.Name)

	switch {
	case strings.Contains(name, "trigger"), strings.Contains(name, "webhook"), slices.Contains(t.Group, "trigger"):
		return model.CategoryTrigger
	case strings.Contains(name, "langchain"), strings.Contains(name, "chat"), hasWord(localName(t.Name), "ai"):
		return model.CategoryAI
	case strings.Contains(name, "code"), strings.Contains(name, "set"), strings.Contains(name, "transform"):
		return model.CategoryTransform
	default:
		return model.CategoryAction
	}
}

func localName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// hasWord reports whether the camel-case identifier s contains word.
func hasWord(s, word string) bool {
	start := 0
	runes := []rune(s)
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || unicode.IsUpper(runes[i]) {
			if strings.EqualFold(string(runes[start:i]), word) {
				return true
			}
			start = i
		}
	}
	return false
}
