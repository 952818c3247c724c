package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// LibraryServer serves library artifacts over HTTP and counts requests.
type LibraryServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests atomic.Int64
	delay    time.Duration
}

// NewLibraryServer starts a server that answers each path with the bytes
// registered for it and 404 otherwise. It is closed when the test ends.
func NewLibraryServer(t *testing.T, delay time.Duration) *LibraryServer {
	t.Helper()
	s := &LibraryServer{files: make(map[string][]byte), delay: delay}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-r.Context().Done():
				return
			}
		}
		s.mu.Lock()
		data, ok := s.files[r.URL.Path]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

// Add registers content at path and returns its URL.
func (s *LibraryServer) Add(path string, content []byte) string {
	path = "/" + strings.TrimPrefix(path, "/")
	s.mu.Lock()
	s.files[path] = content
	s.mu.Unlock()
	return s.URL + path
}

// Requests returns how many requests the server has answered.
func (s *LibraryServer) Requests() int64 {
	return s.requests.Load()
}

// LibraryHCL renders a library block verifying content with sha256.
func LibraryHCL(id string, content []byte, urls ...string) string {
	sum := sha256.Sum256(content)
	quoted := make([]string, len(urls))
	for i, u := range urls {
		quoted[i] = fmt.Sprintf("%q", u)
	}
	return fmt.Sprintf("library %q {\n  urls   = [%s]\n  sha256 = %q\n}\n",
		id, strings.Join(quoted, ", "), hex.EncodeToString(sum[:]))
}
