package executor

import (
	"context"
	"sync"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/events"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Executor runs one resolution over a planned graph. It is single use.
type Executor struct {
	graph      *dag.Graph
	plan       *dag.Plan
	resolver   LibraryResolver
	reporter   events.Reporter
	numWorkers int

	nodes map[string]*state
	wg    sync.WaitGroup
}

// New returns an Executor. A nil reporter discards events; numWorkers below
// one selects DefaultWorkers.
func New(g *dag.Graph, p *dag.Plan, resolver LibraryResolver, reporter events.Reporter, numWorkers int) *Executor {
	if reporter == nil {
		reporter = events.Multi()
	}
	if numWorkers < 1 {
		numWorkers = DefaultWorkers
	}
	e := &Executor{
		graph:      g,
		plan:       p,
		resolver:   resolver,
		reporter:   reporter,
		numWorkers: numWorkers,
		nodes:      make(map[string]*state, g.Len()),
	}
	for _, id := range p.Order() {
		n, _ := g.Node(id)
		deps, _ := g.Dependencies(id)
		dependents, _ := g.Dependents(id)
		s := &state{node: n, deps: deps, dependents: dependents}
		s.depCount.Store(int32(len(deps)))
		e.nodes[id] = s
	}
	return e
}

// Run resolves every node. Independent subgraphs keep going when a library
// fails; its dependents are marked blocked. The report is always returned;
// the error is the report's Err, or the context error if the run was
// canceled.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *state, len(e.nodes))

	logger.Debug("Initializing executor, finding root nodes...")
	rootNodeCount := 0
	for _, id := range e.plan.Order() {
		s := e.nodes[id]
		if s.depCount.Load() == 0 {
			readyChan <- s
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(e.nodes))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	e.wg.Wait()
	close(readyChan)

	report := e.report()
	ready := len(report.IDs(Ready))
	e.reporter.Report(ctx, events.Event{
		Type: events.ResolveFinished,
		Data: map[string]any{
			"ready":   ready,
			"failed":  len(report.IDs(Failed)),
			"blocked": len(report.IDs(Blocked)),
		},
	})
	logger.Info("Resolution finished.", "ready", ready, "total", len(report.Results))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, report.Err()
}

func (e *Executor) report() *Report {
	results := make([]Result, 0, len(e.nodes))
	for _, id := range e.plan.Order() {
		s := e.nodes[id]
		results = append(results, Result{
			ID:       id,
			Kind:     s.node.Kind,
			Status:   s.getStatus(),
			Cause:    s.cause,
			Err:      s.err,
			Verified: s.verified,
		})
	}
	return newReport(results)
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *state, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for s := range readyChan {
		workerLogger := logger.With("workerID", workerID, "nodeID", s.node.ID)

		if err := ctx.Err(); err != nil {
			s.skipOnce.Do(func() {
				workerLogger.Warn("Context canceled, skipping node.")
				s.setStatus(Failed)
				s.err = err
				e.skipDependents(ctx, s, s.node.ID, err)
				e.wg.Done()
			})
			continue
		}

		s.setStatus(Running)
		if err := e.execute(ctx, s); err != nil {
			workerLogger.Error("Node resolution failed.", "error", err)
			s.setStatus(Failed)
			s.err = err
			e.reporter.Report(ctx, events.Event{Type: events.LibraryFailed, Node: s.node.ID, Error: err.Error()})
			e.skipDependents(ctx, s, s.node.ID, err)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Node resolved.")
		s.setStatus(Ready)

		for _, id := range s.dependents {
			dependent := e.nodes[id]
			if dependent.depCount.Add(-1) == 0 {
				workerLogger.Debug("Unlocking dependent node.", "dependentID", id)
				readyChan <- dependent
			}
		}
		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// execute does the node's own work. Only libraries have any.
func (e *Executor) execute(ctx context.Context, s *state) error {
	if s.node.Kind != manifest.KindLibrary {
		return nil
	}
	v, err := e.resolver.Resolve(ctx, s.node.Library)
	if err != nil {
		return err
	}
	s.verified = &v
	e.reporter.Report(ctx, events.Event{
		Type: events.LibraryFetched,
		Node: s.node.ID,
		Data: map[string]any{"digest": v.Digest.String(), "size": v.Size},
	})
	return nil
}

// skipDependents recursively marks all downstream nodes as blocked by cause
// and decrements the WaitGroup once for each.
func (e *Executor) skipDependents(ctx context.Context, s *state, cause string, err error) {
	logger := ctxlog.FromContext(ctx)
	for _, id := range s.dependents {
		dependent := e.nodes[id]
		dependent.skipOnce.Do(func() {
			logger.Warn("Blocking dependent node due to upstream failure.", "nodeID", id, "cause", cause)
			dependent.setStatus(Blocked)
			dependent.cause = cause
			dependent.err = &BlockedError{Node: id, Cause: cause, Err: err}
			e.reporter.Report(ctx, events.Event{Type: events.NodeBlocked, Node: id, Cause: cause})
			e.wg.Done()
			e.skipDependents(ctx, dependent, cause, err)
		})
	}
}
