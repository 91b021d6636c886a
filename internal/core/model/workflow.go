package model

import "encoding/json"

// Workflow is the graph handed to the target platform. Connections are keyed
// by source node name.
type Workflow struct {
	ID          string                     `json:"id,omitempty"`
	Name        string                     `json:"name"`
	Nodes       []Node                     `json:"nodes"`
	Connections map[string]NodeConnections `json:"connections,omitzero"`
	Settings    map[string]any             `json:"settings"`

	// Extra holds workflow members without a field above (pinData,
	// staticData, tags...), as sent.
	Extra map[string]json.RawMessage `json:"-"`
}

func DefaultSettings() map[string]any {
	return map[string]any{"executionOrder": "v1"}
}

func (w *Workflow) NodeByName(name string) (*Node, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].Name == name {
			return &w.Nodes[i], true
		}
	}
	return nil, false
}

// ExecutableNodes returns every node that is not an annotation.
func (w *Workflow) ExecutableNodes() []Node {
	var out []Node
	for _, n := range w.Nodes {
		if !n.IsNote() {
			out = append(out, n)
		}
	}
	return out
}

// Edges flattens the connection map. Order follows the node list so the
// result is deterministic.
func (w *Workflow) Edges() []Edge {
	var edges []Edge
	for _, n := range w.Nodes {
		conns, ok := w.Connections[n.Name]
		if !ok {
			continue
		}
		for _, port := range sortedPorts(conns) {
			for out, targets := range conns[port] {
				for _, t := range targets {
					edges = append(edges, Edge{Source: n.Name, Target: t.Node, Port: port, Output: out})
				}
			}
		}
	}
	return edges
}

func sortedPorts(c NodeConnections) []string {
	ports := make([]string, 0, len(c))
	for p := range c {
		ports = append(ports, p)
	}
	// main first, then lexical
	for i := 1; i < len(ports); i++ {
		for j := i; j > 0 && portLess(ports[j], ports[j-1]); j-- {
			ports[j], ports[j-1] = ports[j-1], ports[j]
		}
	}
	return ports
}

func portLess(a, b string) bool {
	if a == PortMain {
		return b != PortMain
	}
	if b == PortMain {
		return false
	}
	return a < b
}

// Clone returns a structural deep copy; mutating the copy never reaches w.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := &Workflow{
		ID:       w.ID,
		Name:     w.Name,
		Settings: copyMap(w.Settings),
		Extra:    copyExtra(w.Extra),
	}
	if w.Nodes != nil {
		out.Nodes = make([]Node, len(w.Nodes))
		for i, n := range w.Nodes {
			n.Parameters = copyMap(n.Parameters)
			n.Credentials = copyMap(n.Credentials)
			n.Extra = copyExtra(n.Extra)
			out.Nodes[i] = n
		}
	}
	if w.Connections != nil {
		out.Connections = make(map[string]NodeConnections, len(w.Connections))
		for src, ports := range w.Connections {
			cp := make(NodeConnections, len(ports))
			for port, outputs := range ports {
				outs := make([][]ConnectionTarget, len(outputs))
				for i, targets := range outputs {
					outs[i] = append([]ConnectionTarget(nil), targets...)
				}
				cp[port] = outs
			}
			out.Connections[src] = cp
		}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	default:
		return v
	}
}
