// Package topology answers connectivity questions about a workflow graph.
// Sticky notes are ignored throughout.
package topology

import (
	"github.com/agenthands/autoflow/internal/core/model"
)

type graph struct {
	order []string
	out   map[string][]string
	undir map[string][]string
	in    map[string]int
}

func build(w *model.Workflow) *graph {
	g := &graph{
		out:   make(map[string][]string),
		undir: make(map[string][]string),
		in:    make(map[string]int),
	}
	known := make(map[string]bool)
	for _, n := range w.ExecutableNodes() {
		g.order = append(g.order, n.Name)
		known[n.Name] = true
	}

	for _, e := range w.Edges() {
		// Dangling endpoints are the validator's concern, not ours.
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		g.out[e.Source] = append(g.out[e.Source], e.Target)
		g.undir[e.Source] = append(g.undir[e.Source], e.Target)
		g.undir[e.Target] = append(g.undir[e.Target], e.Source)
		g.in[e.Target]++
	}
	return g
}

// Reachable returns the node names reachable from start following connection
// direction, start included, in visit order.
func Reachable(w *model.Workflow, start string) []string {
	g := build(w)
	if _, ok := w.NodeByName(start); !ok {
		return nil
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		out = append(out, u)
		for _, v := range g.out[u] {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	return out
}

// HasPath reports whether to is reachable from from.
func HasPath(w *model.Workflow, from, to string) bool {
	for _, n := range Reachable(w, from) {
		if n == to {
			return true
		}
	}
	return false
}

// Roots returns executable nodes with no incoming connection, in node order.
func Roots(w *model.Workflow) []string {
	g := build(w)
	var roots []string
	for _, n := range g.order {
		if g.in[n] == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Components groups executable nodes into weakly connected components.
// Singletons are included so callers can spot isolated nodes.
func Components(w *model.Workflow) [][]string {
	g := build(w)
	visited := make(map[string]bool)
	var components [][]string

	for _, n := range g.order {
		if visited[n] {
			continue
		}
		var component []string
		dfs(n, g.undir, visited, &component)
		components = append(components, component)
	}
	return components
}

func dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			dfs(v, adj, visited, component)
		}
	}
}
