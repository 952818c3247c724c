package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNodeNotFound is returned when an operation names an unknown node.
var ErrNodeNotFound = errors.New("node not found")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds n to the graph. If a node with the same ID already exists,
// the function does nothing.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = &node{
		Node:       n,
		deps:       make(map[string]EdgeKind),
		dependents: make(map[string]struct{}),
	}
}

// AddEdge records that fromID depends on toID. Self-edges are accepted so
// that the planner can report them as cycles. When the same pair is linked
// twice the first edge kind is kept.
func (g *Graph) AddEdge(fromID, toID string, kind EdgeKind) error {
	from, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source %w: %s", ErrNodeNotFound, fromID)
	}
	to, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrNodeNotFound, toID)
	}
	if _, exists := from.deps[toID]; !exists {
		from.deps[toID] = kind
	}
	to.dependents[fromID] = struct{}{}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node registered under id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Node, true
}

// IDs returns every node ID in ascending order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dependencies returns the IDs id depends on directly, in ascending order.
// When kinds are given only edges of those kinds are followed.
func (g *Graph) Dependencies(id string, kinds ...EdgeKind) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	deps := make([]string, 0, len(n.deps))
	for depID, kind := range n.deps {
		if matches(kind, kinds) {
			deps = append(deps, depID)
		}
	}
	sort.Strings(deps)
	return deps, nil
}

// Dependents returns the IDs that depend directly on id, in ascending order.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	dependents := make([]string, 0, len(n.dependents))
	for depID := range n.dependents {
		dependents = append(dependents, depID)
	}
	sort.Strings(dependents)
	return dependents, nil
}

// Edges returns every edge ordered by source, then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, id := range g.IDs() {
		deps, _ := g.Dependencies(id)
		for _, to := range deps {
			edges = append(edges, Edge{From: id, To: to, Kind: g.nodes[id].deps[to]})
		}
	}
	return edges
}

// Reach returns every node reachable from roots, following only edges of
// the given kinds (all kinds when none are given). Roots are included only
// when reachable from another root or from themselves.
func (g *Graph) Reach(roots []string, kinds ...EdgeKind) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	stack := make([]string, 0, len(roots))
	for _, id := range roots {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for depID, kind := range g.nodes[id].deps {
			if !matches(kind, kinds) {
				continue
			}
			if _, ok := seen[depID]; ok {
				continue
			}
			seen[depID] = struct{}{}
			stack = append(stack, depID)
		}
	}
	return seen, nil
}

func matches(kind EdgeKind, kinds []EdgeKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
