package distribution

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOverlap is the kind of every OverlapError.
var ErrOverlap = errors.New("overlap violation")

// OverlapError reports a declared overlap whose content is not a subset of
// the declaring distribution's content.
type OverlapError struct {
	Distribution string
	OverlapsWith string
	// Missing lists, in plan order, what OverlapsWith packages but
	// Distribution does not.
	Missing []string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("distribution %q overlaps %q but does not contain %s",
		e.Distribution, e.OverlapsWith, strings.Join(e.Missing, ", "))
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// ValidateOverlaps checks every overlaps entry B of distID:
// ArtifactContentOf(B) must be a subset of ArtifactContentOf(distID). It
// returns nil, or one *OverlapError per violated entry joined together.
func (c *Composer) ValidateOverlaps(distID string) error {
	d, err := c.distribution(distID)
	if err != nil {
		return err
	}
	own, err := c.contentSet(distID)
	if err != nil {
		return err
	}

	var errs []error
	for _, other := range d.Overlaps {
		content, err := c.contentSet(other)
		if err != nil {
			return err
		}
		missing := make(map[string]struct{})
		for id := range content {
			if _, ok := own[id]; !ok {
				missing[id] = struct{}{}
			}
		}
		if len(missing) > 0 {
			errs = append(errs, &OverlapError{
				Distribution: distID,
				OverlapsWith: other,
				Missing:      c.plan.Arrange(missing),
			})
		}
	}
	return errors.Join(errs...)
}

// MonolithicContentOf returns the union of distID's own content and the
// monolithic content of every distribution it overlaps, deduplicated and in
// plan order.
func (c *Composer) MonolithicContentOf(distID string) ([]string, error) {
	union := make(map[string]struct{})
	visited := make(map[string]bool)

	var collect func(id string) error
	collect = func(id string) error {
		if visited[id] {
			return nil
		}
		visited[id] = true

		d, err := c.distribution(id)
		if err != nil {
			return err
		}
		set, err := c.contentSet(id)
		if err != nil {
			return err
		}
		for member := range set {
			union[member] = struct{}{}
		}
		for _, other := range d.Overlaps {
			if err := collect(other); err != nil {
				return err
			}
		}
		return nil
	}

	if err := collect(distID); err != nil {
		return nil, err
	}
	return c.plan.Arrange(union), nil
}
