package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the kind shared by every load-time manifest error.
var ErrConfiguration = errors.New("configuration error")

// UnknownReference is a reference to an identifier nothing declares.
type UnknownReference struct {
	From   string
	Field  string
	To     string
	Source string
}

func (e *UnknownReference) Error() string {
	return withSource(e.Source, fmt.Sprintf("%q references unknown identifier %q in %s", e.From, e.To, e.Field))
}

func (e *UnknownReference) Is(target error) bool { return target == ErrConfiguration }

// DuplicateIdentifier is an identifier declared more than once, within one
// kind or across kinds.
type DuplicateIdentifier struct {
	ID      string
	Kinds   []Kind
	Sources []string
}

func (e *DuplicateIdentifier) Error() string {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = k.String()
	}
	msg := fmt.Sprintf("identifier %q declared %d times (%s)", e.ID, len(e.Kinds), strings.Join(kinds, ", "))
	if srcs := nonEmpty(e.Sources); len(srcs) > 0 {
		msg += " at " + strings.Join(srcs, ", ")
	}
	return msg
}

func (e *DuplicateIdentifier) Is(target error) bool { return target == ErrConfiguration }

// KindMismatch is a reference that resolves, but to the wrong kind of entity.
type KindMismatch struct {
	From   string
	Field  string
	To     string
	Got    Kind
	Want   []Kind
	Source string
}

func (e *KindMismatch) Error() string {
	want := make([]string, len(e.Want))
	for i, k := range e.Want {
		want[i] = k.String()
	}
	return withSource(e.Source, fmt.Sprintf("%q lists %s %q in %s, want %s", e.From, e.Got, e.To, e.Field, strings.Join(want, " or ")))
}

func (e *KindMismatch) Is(target error) bool { return target == ErrConfiguration }

// ComplianceConflict is a project depending on a project that needs a newer
// compliance level than its own.
type ComplianceConflict struct {
	Project         string
	ProjectLevel    Compliance
	Dependency      string
	DependencyLevel Compliance
	Source          string
}

func (e *ComplianceConflict) Error() string {
	return withSource(e.Source, fmt.Sprintf("project %q (compliance %s) depends on %q which requires compliance %s",
		e.Project, e.ProjectLevel, e.Dependency, e.DependencyLevel))
}

func (e *ComplianceConflict) Is(target error) bool { return target == ErrConfiguration }

// InvalidField is a malformed or missing attribute on a single entity.
type InvalidField struct {
	ID     string
	Field  string
	Reason string
	Source string
}

func (e *InvalidField) Error() string {
	return withSource(e.Source, fmt.Sprintf("%q: invalid %s: %s", e.ID, e.Field, e.Reason))
}

func (e *InvalidField) Is(target error) bool { return target == ErrConfiguration }

func withSource(source, msg string) string {
	if source == "" {
		return msg
	}
	return source + ": " + msg
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
