package model

type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	}
	return false
}

type Trigger struct {
	Service string `json:"service"`
	Event   string `json:"event"`
}

type Action struct {
	Service    string   `json:"service"`
	Action     string   `json:"action"`
	DataFields []string `json:"data_fields"`
}

// Intent is the structured reading of one automation request. It is
// produced whole by the analyzer and replaced whole on modification.
type Intent struct {
	Intent         string     `json:"intent"`
	Trigger        Trigger    `json:"trigger"`
	Actions        []Action   `json:"actions"`
	RequiredNodes  []string   `json:"required_nodes"`
	Complexity     Complexity `json:"complexity,omitempty"`
	EstimatedNodes int        `json:"estimated_nodes"`
}
