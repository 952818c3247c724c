package resolver

import (
	"context"
	"testing"

	"github.com/specialistvlad/suiteplan/internal/dag"
	"github.com/specialistvlad/suiteplan/internal/distribution"
	"github.com/specialistvlad/suiteplan/internal/executor"
	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sha1Hex = "4e031bb61df09069aeb2bffb4019e7a5034a4ee0"

type okResolver struct{}

func (okResolver) Resolve(_ context.Context, lib *manifest.Library) (integrity.Verified, error) {
	return integrity.Verified{Library: lib.ID, Digest: lib.Digest}, nil
}

func suite(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(&manifest.Records{
		Suite: manifest.SuiteRecord{Name: "jvmci"},
		Libraries: []manifest.LibraryRecord{
			{ID: "mx:JUNIT", URLs: []string{"https://repo.example/junit.jar"}, HashAlgorithm: "sha1", Hash: sha1Hex},
		},
		Projects: []manifest.ProjectRecord{
			{ID: "services", Compliance: "1.8"},
			{ID: "runtime", Compliance: "1.8", Dependencies: []string{"services"}, Checkstyle: "services"},
			{ID: "runtime.test", Compliance: "1.8", Dependencies: []string{"runtime", "mx:JUNIT"}},
			{ID: "hsdis", Native: true},
		},
		Distributions: []manifest.DistributionRecord{
			{ID: "SERVICES", Projects: []string{"services"}},
			{ID: "API", Projects: []string{"runtime"}, DistDependencies: []string{"SERVICES"}},
			{ID: "TEST", Projects: []string{"runtime.test"}, Exclude: []string{"mx:JUNIT"}},
			{ID: "BROKEN", Projects: []string{"services"}, Overlaps: []string{"API"}},
		},
	})
	require.NoError(t, err)
	return m
}

func TestSession(t *testing.T) {
	t.Parallel()

	s, err := New(context.Background(), suite(t), Options{
		Policy:   distribution.Policy{StripProvided: true},
		Resolver: okResolver{},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	t.Run("plan entries carry kind and flags", func(t *testing.T) {
		plan := s.Plan()
		require.Len(t, plan, 9)
		byID := map[string]Entry{}
		for _, e := range plan {
			byID[e.ID] = e
		}
		assert.Equal(t, Entry{ID: "hsdis", Kind: "project", Native: true}, byID["hsdis"])
		assert.Equal(t, "1.8", byID["runtime"].Compliance)
		assert.Equal(t, "library", byID["mx:JUNIT"].Kind)
	})

	t.Run("closure", func(t *testing.T) {
		closure, err := s.ClosureOf("runtime.test")
		require.NoError(t, err)
		assert.Equal(t, []string{"mx:JUNIT", "services", "runtime"}, closure)
	})

	t.Run("content strips provided projects", func(t *testing.T) {
		content, err := s.ArtifactContentOf("API")
		require.NoError(t, err)
		assert.Equal(t, []string{"runtime"}, content)
	})

	t.Run("overlaps validated per distribution", func(t *testing.T) {
		assert.ErrorIs(t, s.ValidateOverlaps("BROKEN"), distribution.ErrOverlap)
		err := s.ValidateAllOverlaps()
		require.Error(t, err)
		var overlap *distribution.OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, "BROKEN", overlap.Distribution)
	})

	t.Run("checkstyle lookup", func(t *testing.T) {
		style, err := s.CheckstyleOf("runtime")
		require.NoError(t, err)
		assert.Equal(t, "services", style)

		style, err = s.CheckstyleOf("services")
		require.NoError(t, err)
		assert.Equal(t, "services", style)

		_, err = s.CheckstyleOf("API")
		assert.ErrorIs(t, err, ErrNotProject)
		_, err = s.CheckstyleOf("nope")
		assert.ErrorIs(t, err, dag.ErrNodeNotFound)
	})

	t.Run("resolve", func(t *testing.T) {
		report, err := s.Resolve(context.Background())
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, []string{"mx:JUNIT"}, idsOfKind(report, manifest.KindLibrary))
	})
}

func TestSession_Cycle(t *testing.T) {
	t.Parallel()

	m, err := manifest.Load(&manifest.Records{
		Projects: []manifest.ProjectRecord{
			{ID: "a", Compliance: "8", Dependencies: []string{"b"}},
			{ID: "b", Compliance: "8", Dependencies: []string{"a"}},
		},
	})
	require.NoError(t, err)

	s, err := New(context.Background(), m, Options{})
	assert.Nil(t, s)
	var cycle *dag.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
}

func TestSession_ResolveWithoutResolver(t *testing.T) {
	t.Parallel()

	s, err := New(context.Background(), suite(t), Options{})
	require.NoError(t, err)
	_, err = s.Resolve(context.Background())
	assert.Error(t, err)
}

func idsOfKind(r *executor.Report, kind manifest.Kind) []string {
	var ids []string
	for _, res := range r.Results {
		if res.Kind == kind {
			ids = append(ids, res.ID)
		}
	}
	return ids
}
