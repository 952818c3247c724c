package dag

import "github.com/specialistvlad/suiteplan/internal/manifest"

// EdgeKind is the manifest relationship an edge was built from.
type EdgeKind int

const (
	// EdgeDependency is a project `dependencies` entry or a distribution's
	// constituent project.
	EdgeDependency EdgeKind = iota + 1
	// EdgeDistDependency is a distribution `dist_dependencies` entry.
	EdgeDistDependency
	// EdgeAnnotationProcessor links a project to the distribution that
	// provides its annotation processor.
	EdgeAnnotationProcessor
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeDependency:
		return "dependency"
	case EdgeDistDependency:
		return "dist_dependency"
	case EdgeAnnotationProcessor:
		return "annotation_processor"
	}
	return "unknown"
}

// Node is one graph vertex: an entity tagged with its kind. Exactly one of
// the payload pointers is set, matching Kind.
type Node struct {
	ID           string
	Kind         manifest.Kind
	Library      *manifest.Library
	Project      *manifest.Project
	Distribution *manifest.Distribution
}

// Edge is a directed edge from a dependent to one of its dependencies.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is an immutable dependency graph once Build returns it. It is safe
// for concurrent readers.
type Graph struct {
	nodes map[string]*node
}

// node is un-exported to enforce interaction with the graph via string IDs.
type node struct {
	Node
	// deps maps a dependency ID to the kind of the edge reaching it.
	deps map[string]EdgeKind
	// dependents holds the IDs of nodes that depend on this node.
	dependents map[string]struct{}
}
