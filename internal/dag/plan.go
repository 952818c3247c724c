package dag

import (
	"container/heap"
	"fmt"
	"sort"
)

// Plan is a total build order: every dependency precedes its dependents, and
// nodes with no ordering constraint between them appear in ascending ID
// order.
type Plan struct {
	order    []string
	position map[string]int
}

// NewPlan validates that g is acyclic and computes its build order. On a
// cycle it returns a *CycleError and no plan.
func NewPlan(g *Graph) (*Plan, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	pending := make(map[string]int, len(g.nodes))
	ready := &idHeap{}
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
		if len(n.deps) == 0 {
			heap.Push(ready, id)
		}
	}

	p := &Plan{
		order:    make([]string, 0, len(g.nodes)),
		position: make(map[string]int, len(g.nodes)),
	}
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		p.position[id] = len(p.order)
		p.order = append(p.order, id)
		for dependent := range g.nodes[id].dependents {
			pending[dependent]--
			if pending[dependent] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}
	if len(p.order) != len(g.nodes) {
		// Unreachable after DetectCycles.
		return nil, fmt.Errorf("planned %d of %d nodes", len(p.order), len(g.nodes))
	}
	return p, nil
}

// Order returns a copy of the full build order.
func (p *Plan) Order() []string {
	return append([]string(nil), p.order...)
}

// Len returns the number of planned nodes.
func (p *Plan) Len() int {
	return len(p.order)
}

// Position returns the index of id in the build order.
func (p *Plan) Position(id string) (int, bool) {
	i, ok := p.position[id]
	return i, ok
}

// Arrange returns the members of set in build order.
func (p *Plan) Arrange(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	p.Sort(out)
	return out
}

// Sort orders ids in place by plan position. Unknown IDs sort last, by ID.
func (p *Plan) Sort(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		pi, iok := p.position[ids[i]]
		pj, jok := p.position[ids[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		}
		return ids[i] < ids[j]
	})
}

// idHeap is a min-heap of node IDs.
type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
