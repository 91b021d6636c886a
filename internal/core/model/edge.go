package model

// ConnectionTarget is one edge endpoint as n8n stores it.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeConnections maps a port type ("main", "ai_languageModel", ...) to the
// node's output fan-outs: outer index is the output slot, inner slice the
// parallel targets fed from it.
type NodeConnections map[string][][]ConnectionTarget

const PortMain = "main"

// Edge is a flattened connection used by graph traversal.
type Edge struct {
	Source string
	Target string
	Port   string
	Output int
}
