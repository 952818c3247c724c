package integrity

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

// ErrIntegrity is the kind shared by every integrity failure.
var ErrIntegrity = errors.New("integrity check failed")

// IntegrityError reports fetched bytes whose digest differs from the one the
// manifest declares for the library.
type IntegrityError struct {
	Library  string
	Expected Digest
	Actual   Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("library %q: integrity check failed: expected %s, got %s", e.Library, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// Verified is the proof that a library's bytes matched its declared digest.
type Verified struct {
	Library string
	Digest  Digest
	Size    int64
}

// Verify hashes data with the expected digest's algorithm and compares the
// full digest in constant time. Nothing short of a full match is accepted.
func Verify(library string, expected Digest, data []byte) (Verified, error) {
	actual, err := Compute(expected.Algorithm, data)
	if err != nil {
		return Verified{}, fmt.Errorf("library %q: %w", library, err)
	}
	if !Equal(expected, actual) {
		return Verified{}, &IntegrityError{Library: library, Expected: expected, Actual: actual}
	}
	return Verified{Library: library, Digest: actual, Size: int64(len(data))}, nil
}

// Equal compares two digests without short-circuiting on the first
// differing byte. Digests of different algorithms never match.
func Equal(a, b Digest) bool {
	if a.Algorithm != b.Algorithm {
		return false
	}
	return subtle.ConstantTimeCompare(a.Sum, b.Sum) == 1
}
