package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// Cache is a content-addressed store of verified library bytes laid out as
// <dir>/<algorithm>/<hex digest>.
type Cache struct {
	dir string
}

// NewCache returns a Cache rooted at dir. The directory is created lazily.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the entry path for d.
func (c *Cache) Path(d integrity.Digest) string {
	return filepath.Join(c.dir, string(d.Algorithm), d.Hex())
}

// Get returns the cached bytes for lib, re-verified against its digest. A
// missing entry is a miss. A corrupt entry is removed and reported as a miss.
func (c *Cache) Get(lib *manifest.Library) (integrity.Verified, bool, error) {
	path := c.Path(lib.Digest)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return integrity.Verified{}, false, nil
	}
	if err != nil {
		return integrity.Verified{}, false, fmt.Errorf("reading cache entry %s: %w", path, err)
	}
	v, err := lib.Verify(data)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return integrity.Verified{}, false, fmt.Errorf("removing corrupt cache entry %s: %w", path, rmErr)
		}
		return integrity.Verified{}, false, nil
	}
	return v, true, nil
}

// Put stores data under d. The bytes land in a temp file first and are
// renamed into place, so readers never observe a partial entry.
func (c *Cache) Put(d integrity.Digest, data []byte) error {
	path := c.Path(d)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}
