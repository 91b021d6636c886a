package model

type Category string

const (
	CategoryTrigger   Category = "trigger"
	CategoryAction    Category = "action"
	CategoryTransform Category = "transform"
	CategoryAI        Category = "ai"
)

// Capability is one node type the target platform can execute.
type Capability struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	IsBuiltIn   bool     `json:"isBuiltIn"`
}
