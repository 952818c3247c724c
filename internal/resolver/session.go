// Package resolver ties the manifest, graph, plan and composer together into
// one session that answers every build-plan query.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/distribution"
	"github.com/specialistvlad/suiteplan/internal/events"
	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// ErrNotProject is returned by CheckstyleOf for a non-project identifier.
var ErrNotProject = errors.New("not a project")

// Options configures a Session.
type Options struct {
	Policy distribution.Policy
	// Workers bounds concurrent library fetches.
	Workers int
	// Resolver fetches libraries. Resolve fails without one.
	Resolver executor.LibraryResolver
	// Reporter receives build events; nil discards them.
	Reporter events.Reporter
}

// Entry is one step of the build plan.
type Entry struct {
	ID         string `json:"id" yaml:"id"`
	Kind       string `json:"kind" yaml:"kind"`
	Native     bool   `json:"native,omitempty" yaml:"native,omitempty"`
	Compliance string `json:"compliance,omitempty" yaml:"compliance,omitempty"`
}

// Session owns one immutable graph and its plan. Any manifest change needs a
// new Session.
type Session struct {
	ID string

	manifest *manifest.Manifest
	graph    *dag.Graph
	plan     *dag.Plan
	composer *distribution.Composer
	opts     Options
}

// New builds and plans the graph for m. A cyclic manifest yields a
// *dag.CycleError and no session.
func New(ctx context.Context, m *manifest.Manifest, opts Options) (*Session, error) {
	id := uuid.New().String()
	ctx = ctxlog.With(ctx, "session_id", id)
	logger := ctxlog.FromContext(ctx)

	if opts.Reporter == nil {
		opts.Reporter = events.Multi()
	}

	g, err := dag.Build(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("building dependency graph: %w", err)
	}
	plan, err := dag.NewPlan(g)
	if err != nil {
		logger.Error("Planning failed.", "error", err)
		return nil, err
	}
	logger.Info("Build plan ready.", "suite", m.Suite.Name, "nodes", plan.Len())

	s := &Session{
		ID:       id,
		manifest: m,
		graph:    g,
		plan:     plan,
		composer: distribution.NewComposer(g, plan, opts.Policy),
		opts:     opts,
	}
	opts.Reporter.Report(ctx, events.Event{
		Type:    events.Plan,
		Session: id,
		Data:    map[string]any{"suite": m.Suite.Name, "nodes": plan.Len()},
	})
	return s, nil
}

// Manifest returns the session's manifest.
func (s *Session) Manifest() *manifest.Manifest { return s.manifest }

// Plan returns the full build order, dependencies first.
func (s *Session) Plan() []Entry {
	order := s.plan.Order()
	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		n, _ := s.graph.Node(id)
		e := Entry{ID: id, Kind: n.Kind.String()}
		if n.Project != nil {
			e.Native = n.Project.Native
			if !n.Project.Compliance.IsZero() {
				e.Compliance = n.Project.Compliance.String()
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// ClosureOf returns everything id transitively depends on, in plan order.
func (s *Session) ClosureOf(id string) ([]string, error) {
	return dag.ClosureOf(s.graph, s.plan, id)
}

// ArtifactContentOf returns what distribution id packages, in plan order.
func (s *Session) ArtifactContentOf(id string) ([]string, error) {
	return s.composer.ArtifactContentOf(id)
}

// MonolithicContentOf returns the combined content of id and everything it
// overlaps.
func (s *Session) MonolithicContentOf(id string) ([]string, error) {
	return s.composer.MonolithicContentOf(id)
}

// ValidateOverlaps checks the overlaps declared by distribution id.
func (s *Session) ValidateOverlaps(id string) error {
	return s.composer.ValidateOverlaps(id)
}

// ValidateAllOverlaps checks every distribution. A violation in one
// distribution does not stop the others from being checked.
func (s *Session) ValidateAllOverlaps() error {
	var errs []error
	for _, d := range s.manifest.Distributions() {
		if err := s.composer.ValidateOverlaps(d.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckstyleOf returns the project whose style rules apply to project id:
// its checkstyle reference, or itself when none is set.
func (s *Session) CheckstyleOf(id string) (string, error) {
	p, ok := s.manifest.Project(id)
	if !ok {
		if _, exists := s.manifest.Kind(id); exists {
			return "", fmt.Errorf("%q: %w", id, ErrNotProject)
		}
		return "", fmt.Errorf("%w: %s", dag.ErrNodeNotFound, id)
	}
	if p.Checkstyle == "" {
		return p.ID, nil
	}
	return p.Checkstyle, nil
}

// Resolve fetches and verifies every library, joining dependents on them.
// The report is returned even when the error is non-nil.
func (s *Session) Resolve(ctx context.Context) (*executor.Report, error) {
	if s.opts.Resolver == nil {
		return nil, errors.New("no library resolver configured")
	}
	ctx = ctxlog.With(ctx, "session_id", s.ID)
	return executor.New(s.graph, s.plan, s.opts.Resolver, sessionReporter{s.opts.Reporter, s.ID}, s.opts.Workers).Run(ctx)
}

// sessionReporter stamps events with the session ID.
type sessionReporter struct {
	events.Reporter
	session string
}

func (r sessionReporter) Report(ctx context.Context, ev events.Event) {
	ev.Session = r.session
	r.Reporter.Report(ctx, ev)
}
