package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// ErrUnresolved is the kind of every UnresolvedDependency.
var ErrUnresolved = errors.New("unresolved dependency")

// Attempt is one failed candidate URL.
type Attempt struct {
	URL string
	Err error
}

// UnresolvedDependency reports a library none of whose URLs produced bytes
// that verify. It unwraps to every attempt's error, so errors.Is finds an
// integrity.ErrIntegrity when a candidate had the wrong content.
type UnresolvedDependency struct {
	Library  string
	Attempts []Attempt
}

func (e *UnresolvedDependency) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "library %q unresolved after %d attempt(s)", e.Library, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.URL, a.Err)
	}
	return b.String()
}

func (e *UnresolvedDependency) Is(target error) bool { return target == ErrUnresolved }

func (e *UnresolvedDependency) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Resolver turns a declared library into verified bytes.
type Resolver struct {
	fetcher Fetcher
	cache   *Cache
}

// NewResolver returns a Resolver. cache may be nil to disable caching.
func NewResolver(f Fetcher, cache *Cache) *Resolver {
	return &Resolver{fetcher: f, cache: cache}
}

// Resolve returns verified bytes for lib: from the cache when a verified
// entry exists, otherwise from the first URL whose content verifies.
func (r *Resolver) Resolve(ctx context.Context, lib *manifest.Library) (integrity.Verified, error) {
	logger := ctxlog.FromContext(ctx).With("library", lib.ID)

	if r.cache != nil {
		v, ok, err := r.cache.Get(lib)
		if err != nil {
			logger.Warn("Cache lookup failed, fetching instead.", "error", err)
		} else if ok {
			logger.Debug("Library served from cache.", "digest", lib.Digest.String())
			return v, nil
		}
	}

	unresolved := &UnresolvedDependency{Library: lib.ID}
	for _, u := range lib.URLs {
		if err := ctx.Err(); err != nil {
			return integrity.Verified{}, err
		}
		logger.Debug("Fetching library candidate.", "url", u)
		data, err := r.fetcher.Fetch(ctx, u)
		if err != nil {
			logger.Warn("Library candidate fetch failed.", "url", u, "error", err)
			unresolved.Attempts = append(unresolved.Attempts, Attempt{URL: u, Err: err})
			continue
		}
		v, err := lib.Verify(data)
		if err != nil {
			logger.Warn("Library candidate failed verification.", "url", u, "error", err)
			unresolved.Attempts = append(unresolved.Attempts, Attempt{URL: u, Err: err})
			continue
		}
		if r.cache != nil {
			if err := r.cache.Put(lib.Digest, data); err != nil {
				logger.Warn("Could not cache verified library.", "error", err)
			}
		}
		logger.Info("Library verified.", "url", u, "size", v.Size)
		return v, nil
	}
	return integrity.Verified{}, unresolved
}
