package integration_tests

import (
	"errors"
	"testing"

	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/manifest"
	"github.com/specialistvlad/suiteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling_UnknownReference(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	suite := `
project "a" {
  java_compliance = "1.8"
  dependencies    = ["ghost"]
}
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, testutil.Command("plan", ""))

	// --- Assert ---
	require.ErrorIs(t, result.Err, manifest.ErrConfiguration)
	var unknown *manifest.UnknownReference
	require.ErrorAs(t, result.Err, &unknown)
	assert.Equal(t, "a", unknown.From)
	assert.Equal(t, "ghost", unknown.To)
	assert.Contains(t, result.Err.Error(), "suite.hcl:2")
}

func TestErrorHandling_ReportsEveryProblemAtOnce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Three independent problems spread over two files.
	files := map[string]string{
		"a.hcl": `
project "a" {
  java_compliance = "1.8"
  dependencies    = ["b"]
}

project "b" {
  java_compliance = "11"
}
`,
		"b.hcl": `
project "p" {
  java_compliance       = "1.8"
  annotation_processors = ["a"]
}

distribution "a" {
  dependencies = ["b"]
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, testutil.Command("validate", ""))

	// --- Assert ---
	require.ErrorIs(t, result.Err, manifest.ErrConfiguration)
	var (
		dup      *manifest.DuplicateIdentifier
		conflict *manifest.ComplianceConflict
	)
	assert.True(t, errors.As(result.Err, &dup), "duplicate identifier not reported")
	assert.True(t, errors.As(result.Err, &conflict), "compliance conflict not reported")
	if conflict != nil {
		assert.Equal(t, "a", conflict.Project)
		assert.Equal(t, "b", conflict.Dependency)
	}
}

func TestErrorHandling_KindMismatch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	suite := `
project "lib" {
  java_compliance = "1.8"
}

project "user" {
  java_compliance       = "1.8"
  annotation_processors = ["lib"]
}
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, testutil.Command("plan", ""))

	// --- Assert ---
	var mismatch *manifest.KindMismatch
	require.ErrorAs(t, result.Err, &mismatch)
	assert.Equal(t, "annotation_processors", mismatch.Field)
	assert.Equal(t, manifest.KindProject, mismatch.Got)
}

func TestErrorHandling_CycleIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	suite := `
project "x" {
  java_compliance = "1.8"
  dependencies    = ["y"]
}

project "y" {
  java_compliance = "1.8"
  dependencies    = ["x"]
}
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, testutil.Command("plan", ""))

	// --- Assert ---
	require.ErrorIs(t, result.Err, dag.ErrCycle)
	var cycle *dag.CycleError
	require.ErrorAs(t, result.Err, &cycle)
	assert.Equal(t, []string{"x", "y", "x"}, cycle.Path)
	assert.Empty(t, result.Output, "no plan may be emitted for a cyclic manifest")
}

func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	suite := `
project "a" {
  java_compliance = "1.8"
`
	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"suite.hcl": suite}, testutil.Command("plan", ""))

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to load manifest")
}
