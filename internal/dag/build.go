package dag

import (
	"context"
	"fmt"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// Build constructs the dependency graph for a validated manifest. Checkstyle
// and exclude references stay on the node payloads and never become edges.
func Build(ctx context.Context, m *manifest.Manifest) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	g := New()

	// First pass: one node per entity.
	for _, lib := range m.Libraries() {
		g.AddNode(Node{ID: lib.ID, Kind: manifest.KindLibrary, Library: lib})
	}
	for _, p := range m.Projects() {
		g.AddNode(Node{ID: p.ID, Kind: manifest.KindProject, Project: p})
	}
	for _, d := range m.Distributions() {
		g.AddNode(Node{ID: d.ID, Kind: manifest.KindDistribution, Distribution: d})
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: link dependencies.
	link := func(from string, to []string, kind EdgeKind) error {
		for _, id := range to {
			if err := g.AddEdge(from, id, kind); err != nil {
				return fmt.Errorf("linking %s %q: %w", kind, from, err)
			}
		}
		return nil
	}
	for _, p := range m.Projects() {
		if err := link(p.ID, p.Dependencies, EdgeDependency); err != nil {
			return nil, err
		}
		if err := link(p.ID, p.AnnotationProcessors, EdgeAnnotationProcessor); err != nil {
			return nil, err
		}
	}
	for _, d := range m.Distributions() {
		if err := link(d.ID, d.Projects, EdgeDependency); err != nil {
			return nil, err
		}
		if err := link(d.ID, d.DistDependencies, EdgeDistDependency); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node linking complete.", "edge_count", len(g.Edges()))

	return g, nil
}
