package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// Status is the outcome of one node.
type Status int32

const (
	Pending Status = iota
	Running
	Ready
	Failed
	Blocked
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Blocked:
		return "blocked"
	}
	return "unknown"
}

// ErrBlocked is the kind of every BlockedError.
var ErrBlocked = errors.New("blocked by upstream failure")

// BlockedError marks a node that could not be resolved because Cause, one
// of its transitive dependencies, failed with Err.
type BlockedError struct {
	Node  string
	Cause string
	Err   error
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%q blocked by failure of %q: %v", e.Node, e.Cause, e.Err)
}

func (e *BlockedError) Is(target error) bool { return target == ErrBlocked }

func (e *BlockedError) Unwrap() error { return e.Err }

// LibraryResolver turns a declared library into verified bytes.
type LibraryResolver interface {
	Resolve(ctx context.Context, lib *manifest.Library) (integrity.Verified, error)
}

// state is the mutable per-node bookkeeping of one run.
type state struct {
	node dag.Node
	// depCount is the number of dependencies that have not succeeded yet.
	depCount atomic.Int32
	status   atomic.Int32
	err      error
	cause    string
	verified *integrity.Verified
	skipOnce sync.Once

	deps       []string
	dependents []string
}

func (s *state) setStatus(st Status) { s.status.Store(int32(st)) }
func (s *state) getStatus() Status   { return Status(s.status.Load()) }
