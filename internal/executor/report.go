package executor

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// ErrPartial is returned by Run when some nodes could not be resolved.
var ErrPartial = errors.New("partial resolution")

// Result is the outcome of one node.
type Result struct {
	ID     string
	Kind   manifest.Kind
	Status Status
	// Cause is the failing library a blocked node waits on.
	Cause    string
	Err      error
	Verified *integrity.Verified
}

// Report is the outcome of a run, in plan order.
type Report struct {
	Results []Result
	index   map[string]int
}

func newReport(results []Result) *Report {
	r := &Report{Results: results, index: make(map[string]int, len(results))}
	for i, res := range results {
		r.index[res.ID] = i
	}
	return r
}

// Result returns the outcome for id.
func (r *Report) Result(id string) (Result, bool) {
	i, ok := r.index[id]
	if !ok {
		return Result{}, false
	}
	return r.Results[i], true
}

// IDs returns the IDs whose status is st, in plan order.
func (r *Report) IDs(st Status) []string {
	var ids []string
	for _, res := range r.Results {
		if res.Status == st {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// OK reports whether every node is ready.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.Status != Ready {
			return false
		}
	}
	return true
}

// Err summarizes the failed libraries, or returns nil for a complete run.
// The result matches ErrPartial and unwraps to each library failure.
func (r *Report) Err() error {
	var errs []error
	blocked := 0
	for _, res := range r.Results {
		switch res.Status {
		case Failed:
			errs = append(errs, res.Err)
		case Blocked:
			blocked++
		}
	}
	if len(errs) == 0 && blocked == 0 {
		return nil
	}
	return &PartialError{Failed: len(errs), Blocked: blocked, Err: errors.Join(errs...)}
}

// PartialError summarizes a run that left nodes unresolved.
type PartialError struct {
	Failed  int
	Blocked int
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d node(s) failed, %d blocked: %v", e.Failed, e.Blocked, e.Err)
}

func (e *PartialError) Is(target error) bool { return target == ErrPartial }

func (e *PartialError) Unwrap() error { return e.Err }
