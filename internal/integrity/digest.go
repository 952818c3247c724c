package integrity

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm names a supported content hash.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	BLAKE3 Algorithm = "blake3"
)

// Algorithms lists every supported algorithm tag.
var Algorithms = []Algorithm{SHA1, SHA256, SHA512, BLAKE3}

// ParseAlgorithm resolves a manifest algorithm tag, case-insensitively.
func ParseAlgorithm(tag string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(tag)))
	for _, known := range Algorithms {
		if alg == known {
			return alg, nil
		}
	}
	return "", fmt.Errorf("unsupported hash algorithm %q", tag)
}

// New returns a fresh hash.Hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("unsupported hash algorithm %q", string(a))
}

// Size is the digest length in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	case BLAKE3:
		return 32
	}
	return 0
}

// Digest is a hash value tagged with the algorithm that produced it.
type Digest struct {
	Algorithm Algorithm
	Sum       []byte
}

// ParseDigest decodes a hex digest declared for the given algorithm tag and
// checks that it has the full length for that algorithm.
func ParseDigest(tag, value string) (Digest, error) {
	alg, err := ParseAlgorithm(tag)
	if err != nil {
		return Digest{}, err
	}
	sum, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return Digest{}, fmt.Errorf("invalid %s digest %q: %w", alg, value, err)
	}
	if len(sum) != alg.Size() {
		return Digest{}, fmt.Errorf("invalid %s digest %q: want %d bytes, got %d", alg, value, alg.Size(), len(sum))
	}
	return Digest{Algorithm: alg, Sum: sum}, nil
}

// Hex returns the lowercase hex encoding of the sum.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}

// String renders the digest as "algorithm:hex".
func (d Digest) String() string {
	if d.Algorithm == "" {
		return ""
	}
	return string(d.Algorithm) + ":" + d.Hex()
}

// Compute hashes data with the given algorithm.
func Compute(alg Algorithm, data []byte) (Digest, error) {
	h, err := alg.New()
	if err != nil {
		return Digest{}, err
	}
	h.Write(data)
	return Digest{Algorithm: alg, Sum: h.Sum(nil)}, nil
}
