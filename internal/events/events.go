// Package events reports resolver progress to pluggable sinks.
package events

import (
	"context"
	"errors"
	"time"
)

// Type names a build event.
type Type string

const (
	Plan            Type = "plan"
	LibraryFetched  Type = "library.fetched"
	LibraryFailed   Type = "library.failed"
	NodeBlocked     Type = "node.blocked"
	ResolveFinished Type = "resolve.finished"
)

// Event is one progress notification. Node and Cause are set for node-level
// events; Data carries event-specific details.
type Event struct {
	Type    Type           `json:"type"`
	Session string         `json:"session,omitempty"`
	Node    string         `json:"node,omitempty"`
	Cause   string         `json:"cause,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Time    time.Time      `json:"time"`
}

// Reporter receives build events. Report must be safe for concurrent use
// and must not block the caller for long.
type Reporter interface {
	Report(ctx context.Context, ev Event)
	Close() error
}

// Multi fans every event out to all reporters.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

type multi []Reporter

func (m multi) Report(ctx context.Context, ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	for _, r := range m {
		r.Report(ctx, ev)
	}
}

func (m multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
