package builder

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core/model"
)

type nodeView struct {
	id       string
	name     string
	typ      string
	position any
}

// validate stops at the first violation, in this order: name, node count,
// per node identity/type/position, connection sources, connection targets.
func validate(name string, nodes []nodeView, conns map[string]model.NodeConnections) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "workflow must have a name")
	}
	if len(nodes) == 0 {
		return apperr.Validation("nodes", "workflow must have at least one node")
	}

	names := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		label := nodeLabel(n, i)
		if n.id == "" && n.name == "" {
			return apperr.Validation(label, "node %d must have id or name", i)
		}
		if strings.TrimSpace(n.typ) == "" {
			return apperr.Validation(label, "node %s must have type", label)
		}
		if err := checkPosition(n.position); err != nil {
			return apperr.Validation(label, "node %s %s", label, err)
		}
		if n.name != "" {
			names[n.name] = true
		}
	}

	sources := make([]string, 0, len(conns))
	for src := range conns {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		if !names[src] {
			return apperr.Validation(src, "connection source node %q not found", src)
		}
	}
	for _, src := range sources {
		ports := make([]string, 0, len(conns[src]))
		for p := range conns[src] {
			ports = append(ports, p)
		}
		sort.Strings(ports)
		for _, port := range ports {
			for _, fan := range conns[src][port] {
				for _, t := range fan {
					if !names[t.Node] {
						return apperr.Validation(t.Node, "connection target node %q not found (from %q via %s)", t.Node, src, port)
					}
				}
			}
		}
	}
	return nil
}

func checkPosition(v any) error {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("position must be [x, y] array")
	}
	for _, c := range arr {
		f, ok := c.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("position must contain numbers")
		}
	}
	return nil
}
