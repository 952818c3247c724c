package dag

// ClosureOf returns every node reachable from id over any edge kind,
// deduplicated and in plan order. id itself is not included.
func ClosureOf(g *Graph, p *Plan, id string) ([]string, error) {
	reach, err := g.Reach([]string{id})
	if err != nil {
		return nil, err
	}
	delete(reach, id)
	return p.Arrange(reach), nil
}
