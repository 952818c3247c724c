package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/suiteplan/internal/app"
	"github.com/specialistvlad/suiteplan/internal/hcl"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	Dir       string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg)
}

// RunIntegrationTestWithContext writes files into a temporary suite
// directory, points cfg at it unless cfg already names manifests, and runs
// the configured command. A config validation failure is reported through
// HarnessResult.Err.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	suiteDir := WriteSuite(t, files)
	if len(cfg.ManifestPaths) == 0 {
		cfg.ManifestPaths = []string{suiteDir}
	}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return &HarnessResult{Err: err, Dir: suiteDir}
	}

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	runErr := app.NewApp(out, logs, validated, hcl.NewLoader()).Run(ctx)

	if os.Getenv("SUITEPLAN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		Dir:       suiteDir,
	}
}

// Command returns the default configuration for command and target with
// network fetchers disabled.
func Command(command, target string) app.Config {
	cfg := app.Defaults()
	cfg.ManifestPaths = nil
	cfg.Command = command
	cfg.Target = target
	cfg.Offline = true
	return cfg
}

// WriteSuite writes files, keyed by relative path, under a fresh temporary
// directory and returns it.
func WriteSuite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
