package distribution

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// ErrNotDistribution is returned when a content query names an entity that
// is not a distribution.
var ErrNotDistribution = errors.New("not a distribution")

// Policy selects what ends up in a distribution's artifact.
type Policy struct {
	// BundleLibraries packages reachable libraries alongside projects.
	BundleLibraries bool
	// StripProvided drops anything already packaged by one of the
	// distribution's transitive dist_dependencies.
	StripProvided bool
}

// Composer answers content queries over a planned graph.
type Composer struct {
	graph  *dag.Graph
	plan   *dag.Plan
	policy Policy
}

// NewComposer returns a Composer for g ordered by p.
func NewComposer(g *dag.Graph, p *dag.Plan, policy Policy) *Composer {
	return &Composer{graph: g, plan: p, policy: policy}
}

// ArtifactContentOf returns what distID packages, in plan order: its
// projects and everything they reach through dependency edges, restricted to
// projects (and libraries when bundled), minus the exclude list.
func (c *Composer) ArtifactContentOf(distID string) ([]string, error) {
	set, err := c.contentSet(distID)
	if err != nil {
		return nil, err
	}
	return c.plan.Arrange(set), nil
}

func (c *Composer) distribution(id string) (*manifest.Distribution, error) {
	n, ok := c.graph.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dag.ErrNodeNotFound, id)
	}
	if n.Kind != manifest.KindDistribution {
		return nil, fmt.Errorf("%q is a %s: %w", id, n.Kind, ErrNotDistribution)
	}
	return n.Distribution, nil
}

func (c *Composer) contentSet(distID string) (map[string]struct{}, error) {
	d, err := c.distribution(distID)
	if err != nil {
		return nil, err
	}
	set, err := c.ownContent(d)
	if err != nil {
		return nil, err
	}
	if !c.policy.StripProvided {
		return set, nil
	}

	provided, err := c.graph.Reach([]string{d.ID}, dag.EdgeDistDependency)
	if err != nil {
		return nil, err
	}
	for depID := range provided {
		dep, err := c.distribution(depID)
		if err != nil {
			return nil, err
		}
		depContent, err := c.ownContent(dep)
		if err != nil {
			return nil, err
		}
		for id := range depContent {
			delete(set, id)
		}
	}
	return set, nil
}

// ownContent is the unstripped content of d.
func (c *Composer) ownContent(d *manifest.Distribution) (map[string]struct{}, error) {
	reach, err := c.graph.Reach(d.Projects, dag.EdgeDependency)
	if err != nil {
		return nil, err
	}
	for _, id := range d.Projects {
		reach[id] = struct{}{}
	}

	set := make(map[string]struct{}, len(reach))
	for id := range reach {
		if d.Excludes(id) {
			continue
		}
		n, _ := c.graph.Node(id)
		switch {
		case n.Kind == manifest.KindProject:
			set[id] = struct{}{}
		case n.Kind == manifest.KindLibrary && c.policy.BundleLibraries:
			set[id] = struct{}{}
		}
	}
	return set, nil
}
