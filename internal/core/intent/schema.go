package intent

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const intentSchema = `{
  "type": "object",
  "required": ["intent", "trigger", "actions", "required_nodes"],
  "properties": {
    "intent": {"type": "string", "minLength": 1},
    "trigger": {
      "type": "object",
      "required": ["service", "event"],
      "properties": {
        "service": {"type": "string", "minLength": 1},
        "event": {"type": "string", "minLength": 1}
      }
    },
    "actions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["service", "action"],
        "properties": {
          "service": {"type": "string", "minLength": 1},
          "action": {"type": "string", "minLength": 1},
          "data_fields": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "required_nodes": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "complexity": {"enum": ["simple", "medium", "complex"]},
    "estimated_nodes": {"type": "integer", "minimum": 0}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(intentSchema)

// checkSchema returns the schema violations of doc, empty when it conforms.
func checkSchema(doc string) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.Field()+": "+e.Description())
	}
	return problems, nil
}

func joinProblems(p []string) string {
	return strings.Join(p, "; ")
}
