package dag

import (
	"errors"
	"strings"
)

// ErrCycle is the kind of every CycleError.
var ErrCycle = errors.New("dependency cycle")

// CycleError reports a dependency cycle. Path starts and ends with the same
// ID and follows edges from dependent to dependency.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

const (
	white = iota
	gray
	black
)

// DetectCycles runs a three-color depth-first search and returns a
// *CycleError for the first back-edge found. Nodes and edges are visited in
// ascending ID order, so the reported cycle is stable.
func (g *Graph) DetectCycles() error {
	color := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		stack = append(stack, id)

		deps, _ := g.Dependencies(id)
		for _, dep := range deps {
			switch color[dep] {
			case gray:
				start := len(stack) - 1
				for stack[start] != dep {
					start--
				}
				path := append([]string{}, stack[start:]...)
				return &CycleError{Path: append(path, dep)}
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, id := range g.IDs() {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
