package integration_tests

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/suiteplan/internal/app"
	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveConfig() app.Config {
	cfg := testutil.Command("resolve", "")
	cfg.Offline = false
	cfg.Output = "json"
	return cfg
}

func TestResolve_FallsBackToNextURL(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := testutil.NewLibraryServer(t, 0)
	content := []byte("junit 4.12")
	good := server.Add("mirror/junit.jar", content)
	suite := testutil.LibraryHCL("mx:JUNIT", content, server.URL+"/missing/junit.jar", good) + `
project "tests" {
  java_compliance = "1.8"
  dependencies    = ["mx:JUNIT"]
}
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, resolveConfig())

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, "ready", testutil.Statuses(t, result)["mx:JUNIT"])
	assert.EqualValues(t, 2, server.Requests())
	assert.Contains(t, result.LogOutput, "Library candidate fetch failed.")
}

func TestResolve_DigestMismatchBlocksDependents(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// BAD is served with bytes that do not match its declared digest. The
	// independent branch through GOOD must still resolve.
	server := testutil.NewLibraryServer(t, 0)
	good := []byte("good")
	suite := testutil.LibraryHCL("BAD", []byte("expected"), server.Add("bad.jar", []byte("tampered"))) +
		testutil.LibraryHCL("GOOD", good, server.Add("good.jar", good)) + `
project "uses.bad" {
  java_compliance = "11"
  dependencies    = ["BAD"]
}

project "uses.bad.transitively" {
  java_compliance = "11"
  dependencies    = ["uses.bad"]
}

project "uses.good" {
  java_compliance = "11"
  dependencies    = ["GOOD"]
}
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, resolveConfig())

	// --- Assert ---
	require.ErrorIs(t, result.Err, app.ErrPartialPlan)
	require.ErrorIs(t, result.Err, executor.ErrPartial)
	statuses := testutil.Statuses(t, result)
	assert.Equal(t, "failed", statuses["BAD"])
	assert.Equal(t, "blocked", statuses["uses.bad"])
	assert.Equal(t, "blocked", statuses["uses.bad.transitively"])
	assert.Equal(t, "ready", statuses["GOOD"])
	assert.Equal(t, "ready", statuses["uses.good"])
	assert.True(t, strings.Contains(result.Output, `"cause": "BAD"`), "blocked nodes must name the failing library")
}

func TestResolve_CacheServesSecondRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := testutil.NewLibraryServer(t, 0)
	content := []byte("batik")
	files := map[string]string{
		"suite.hcl": testutil.LibraryHCL("BATIK", content, server.Add("batik.jar", content)),
	}
	cfg := resolveConfig()
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	// --- Act ---
	first := testutil.RunIntegrationTest(t, files, cfg)
	require.NoError(t, first.Err)
	afterFirst := server.Requests()

	second := testutil.RunIntegrationTest(t, files, cfg)

	// --- Assert ---
	require.NoError(t, second.Err)
	assert.EqualValues(t, 1, afterFirst)
	assert.Equal(t, afterFirst, server.Requests(), "second run must not hit the network")
	assert.Contains(t, second.LogOutput, "Library served from cache.")
}

func TestResolve_OfflineUsesOnlyTheCache(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := testutil.NewLibraryServer(t, 0)
	content := []byte("hcfdis")
	files := map[string]string{
		"suite.hcl": testutil.LibraryHCL("HCFDIS", content, server.Add("hcfdis.jar", content)),
	}
	cfg := resolveConfig()
	cfg.Offline = true

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, cfg)

	// --- Assert ---
	require.ErrorIs(t, result.Err, app.ErrPartialPlan)
	assert.Zero(t, server.Requests())
	assert.Equal(t, "failed", testutil.Statuses(t, result)["HCFDIS"])
}

func TestResolve_SlowServerHonorsFetchTimeout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := testutil.NewLibraryServer(t, 2*time.Second)
	content := []byte("slow")
	files := map[string]string{
		"suite.hcl": testutil.LibraryHCL("SLOW", content, server.Add("slow.jar", content)),
	}
	cfg := resolveConfig()
	cfg.FetchTimeout = 100 * time.Millisecond

	// --- Act ---
	start := time.Now()
	result := testutil.RunIntegrationTest(t, files, cfg)

	// --- Assert ---
	require.ErrorIs(t, result.Err, app.ErrPartialPlan)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "failed", testutil.Statuses(t, result)["SLOW"])
}
