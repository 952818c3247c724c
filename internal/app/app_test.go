package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jvmciDir = filepath.Join("..", "hcl", "testdata", "jvmci")

func testConfig(command, target string, paths ...string) Config {
	cfg := Defaults()
	cfg.Command = command
	cfg.Target = target
	cfg.ManifestPaths = paths
	cfg.Offline = true
	return cfg
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestRun_Plan(t *testing.T) {
	cfg := testConfig("plan", "", jvmciDir)
	cfg.Output = "json"
	a, out, logs := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))

	var entries []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &entries))
	require.Len(t, entries, 29)

	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[e.ID] = i
	}
	assert.Less(t, pos["mx:JUNIT"], pos["jdk.vm.ci.runtime.test"])
	assert.Less(t, pos["jdk.vm.ci.meta"], pos["jdk.vm.ci.code"])
	assert.Less(t, pos["JVMCI_SERVICE"], pos["JVMCI_API"])
	assert.Contains(t, logs.String(), "Build plan ready.")
}

func TestRun_Closure(t *testing.T) {
	a, out, _ := SetupAppTest(t, testConfig("closure", "jdk.vm.ci.runtime", jvmciDir))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, []string{"jdk.vm.ci.meta", "jdk.vm.ci.code"}, lines(out.String()))
}

func TestRun_Content(t *testing.T) {
	a, out, _ := SetupAppTest(t, testConfig("content", "JVMCI_TEST", jvmciDir))

	require.NoError(t, a.Run(context.Background()))
	got := lines(out.String())
	assert.Contains(t, got, "jdk.vm.ci.runtime.test")
	assert.NotContains(t, got, "mx:JUNIT")
}

func TestRun_Checkstyle(t *testing.T) {
	a, out, _ := SetupAppTest(t, testConfig("checkstyle", "jdk.vm.ci.code", jvmciDir))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "jdk.vm.ci.service", strings.TrimSpace(out.String()))
}

func TestRun_UnknownTarget(t *testing.T) {
	a, _, _ := SetupAppTest(t, testConfig("closure", "NOPE", jvmciDir))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, dag.ErrNodeNotFound)
}

func TestRun_Validate(t *testing.T) {
	a, _, logs := SetupAppTest(t, testConfig("validate", "", jvmciDir))

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), "Manifest is valid.")
}

func TestRun_Overlaps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "suite.hcl", `
suite "demo" {}

project "a" {
  java_compliance = "1.8"
}

project "b" {
  java_compliance = "1.8"
}

distribution "SMALL" {
  dependencies = ["a"]
}

distribution "BIG" {
  dependencies = ["b"]
  overlaps     = ["SMALL"]
}
`)
	a, out, _ := SetupAppTest(t, testConfig("overlaps", "", dir))

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrOverlapViolation)
	assert.Contains(t, out.String(), "BIG")
	assert.Contains(t, out.String(), "violation")
}

func TestRun_ConfigurationError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "suite.hcl", `
project "a" {
  java_compliance = "1.8"
  dependencies    = ["missing"]
}
`)
	a, _, _ := SetupAppTest(t, testConfig("plan", "", dir))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, manifest.ErrConfiguration)
}

func TestRun_Cycle(t *testing.T) {
	a, _, _ := SetupAppTest(t, testConfig("plan", "", filepath.Join("..", "hcl", "testdata", "bad")))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, dag.ErrCycle)
}

func TestRun_Resolve(t *testing.T) {
	t.Run("file library resolves and is cached", func(t *testing.T) {
		dir := t.TempDir()
		jar := writeFile(t, dir, "lib.jar", "jar-bytes")
		sum := sha256.Sum256([]byte("jar-bytes"))
		writeFile(t, dir, "suite.hcl", fmt.Sprintf(`
library "LIB" {
  urls   = ["file://%s"]
  sha256 = "%s"
}

project "app" {
  java_compliance = "11"
  dependencies    = ["LIB"]
}
`, filepath.ToSlash(jar), hex.EncodeToString(sum[:])))

		cfg := testConfig("resolve", "", dir)
		cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
		a, out, _ := SetupAppTest(t, cfg)

		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), "LIB")
		assert.Contains(t, out.String(), "ready")
		_, err := os.Stat(filepath.Join(cfg.CacheDir, "sha256", hex.EncodeToString(sum[:])))
		assert.NoError(t, err)
	})

	t.Run("offline manifest yields a partial plan", func(t *testing.T) {
		cfg := testConfig("resolve", "", jvmciDir)
		cfg.Output = "json"
		a, out, _ := SetupAppTest(t, cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := a.Run(ctx)
		require.ErrorIs(t, err, ErrPartialPlan)
		assert.ErrorIs(t, err, executor.ErrPartial)

		var rows []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Cause  string `json:"cause"`
		}
		require.NoError(t, json.Unmarshal([]byte(out.String()), &rows))
		status := make(map[string]string, len(rows))
		for _, r := range rows {
			status[r.ID] = r.Status
		}
		assert.Equal(t, "failed", status["mx:JUNIT"])
		assert.Equal(t, "blocked", status["jdk.vm.ci.runtime.test"])
		assert.Equal(t, "ready", status["jdk.vm.ci.meta"])
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
