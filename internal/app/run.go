package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/distribution"
	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/render"
	"github.com/specialistvlad/suiteplan/internal/resolver"
)

// ErrOverlapViolation is returned by the overlaps and validate commands
// when a declared overlap does not hold.
var ErrOverlapViolation = errors.New("overlap violations found")

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "target", a.config.Target)

	reporter, err := a.reporter(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			a.logger.Warn("Closing event sinks failed.", "error", err)
		}
	}()

	s, err := a.session(ctx, reporter)
	if err != nil {
		return err
	}

	format, _ := render.ParseFormat(a.config.Output)
	target := a.config.Target

	switch a.config.Command {
	case "plan":
		return render.Plan(a.outW, format, s.Plan())

	case "closure":
		ids, err := s.ClosureOf(target)
		if err != nil {
			return err
		}
		return render.IDs(a.outW, format, render.List{Query: "closure", Target: target, Items: ids})

	case "content":
		ids, err := s.ArtifactContentOf(target)
		if err != nil {
			return err
		}
		return render.IDs(a.outW, format, render.List{Query: "content", Target: target, Items: ids})

	case "monolithic":
		ids, err := s.MonolithicContentOf(target)
		if err != nil {
			return err
		}
		return render.IDs(a.outW, format, render.List{Query: "monolithic", Target: target, Items: ids})

	case "checkstyle":
		id, err := s.CheckstyleOf(target)
		if err != nil {
			return err
		}
		return render.IDs(a.outW, format, render.List{Query: "checkstyle", Target: target, Items: []string{id}})

	case "overlaps":
		return a.overlaps(s, format, target)

	case "validate":
		if err := s.ValidateAllOverlaps(); err != nil {
			return fmt.Errorf("%w: %w", ErrOverlapViolation, err)
		}
		a.logger.Info("Manifest is valid.", "suite", s.Manifest().Suite.Name, "entities", s.Manifest().Len())
		return render.Plan(a.outW, format, s.Plan())

	case "resolve":
		report, err := s.Resolve(ctx)
		if report != nil {
			if rerr := render.Report(a.outW, format, report); rerr != nil {
				return rerr
			}
		}
		if errors.Is(err, executor.ErrPartial) {
			return fmt.Errorf("%w: %w", ErrPartialPlan, err)
		}
		return err
	}
	return fmt.Errorf("unknown command %q", a.config.Command)
}

func (a *App) overlaps(s *resolver.Session, format render.Format, target string) error {
	var ids []string
	if target != "" {
		ids = []string{target}
	} else {
		for _, d := range s.Manifest().Distributions() {
			if len(d.Overlaps) > 0 {
				ids = append(ids, d.ID)
			}
		}
	}

	var results []render.OverlapResult
	violations := 0
	for _, id := range ids {
		err := s.ValidateOverlaps(id)
		if err == nil {
			results = append(results, render.OverlapResult{Distribution: id, OK: true})
			continue
		}
		found := overlapErrors(err)
		if len(found) == 0 {
			return err
		}
		for _, oe := range found {
			violations++
			results = append(results, render.OverlapResult{
				Distribution: oe.Distribution,
				OverlapsWith: oe.OverlapsWith,
				Missing:      oe.Missing,
			})
		}
	}
	if err := render.Overlaps(a.outW, format, results); err != nil {
		return err
	}
	if violations > 0 {
		return fmt.Errorf("%w: %d violation(s)", ErrOverlapViolation, violations)
	}
	return nil
}

// overlapErrors flattens the *distribution.OverlapError values inside err.
func overlapErrors(err error) []*distribution.OverlapError {
	switch e := err.(type) {
	case *distribution.OverlapError:
		return []*distribution.OverlapError{e}
	case interface{ Unwrap() []error }:
		var out []*distribution.OverlapError
		for _, inner := range e.Unwrap() {
			out = append(out, overlapErrors(inner)...)
		}
		return out
	}
	return nil
}
