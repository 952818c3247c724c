package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const junitSHA1 = "4e031bb61df09069aeb2bffb4019e7a5034a4ee0"

func jvmciRecords() *Records {
	return &Records{
		Suite: SuiteRecord{Name: "jvmci", MxVersion: "5.190.1"},
		Libraries: []LibraryRecord{
			{ID: "mx:JUNIT", URLs: []string{"https://repo.example/junit-4.12.jar"}, HashAlgorithm: "sha1", Hash: junitSHA1},
		},
		Projects: []ProjectRecord{
			{ID: "jdk.vm.ci.common", Compliance: "1.8", Checkstyle: "jdk.vm.ci.services"},
			{ID: "jdk.vm.ci.services", Compliance: "1.8"},
			{ID: "jdk.vm.ci.runtime", Compliance: "1.8", Dependencies: []string{"jdk.vm.ci.common", "jdk.vm.ci.services"}},
			{ID: "jdk.vm.ci.runtime.test", Compliance: "1.8", Dependencies: []string{"jdk.vm.ci.runtime", "mx:JUNIT"}},
			{ID: "jdk.vm.ci.hotspot.jfr", Compliance: "1.8", Dependencies: []string{"jdk.vm.ci.runtime"}, AnnotationProcessors: []string{"JVMCI_SERVICES_PROCESSOR"}},
			{ID: "jdk.vm.ci.native", Native: true},
		},
		Distributions: []DistributionRecord{
			{ID: "JVMCI_SERVICES", Projects: []string{"jdk.vm.ci.services"}},
			{ID: "JVMCI_SERVICES_PROCESSOR", Projects: []string{"jdk.vm.ci.services"}, DistDependencies: []string{"JVMCI_SERVICES"}},
			{ID: "JVMCI_API", Projects: []string{"jdk.vm.ci.runtime"}, DistDependencies: []string{"JVMCI_SERVICES"}},
			{ID: "JVMCI_TEST", Projects: []string{"jdk.vm.ci.runtime.test"}, Exclude: []string{"mx:JUNIT"}},
			{ID: "JVMCI", Overlaps: []string{"JVMCI_API", "JVMCI_SERVICES"}},
		},
	}
}

func TestLoad_Valid(t *testing.T) {
	t.Parallel()

	m, err := Load(jvmciRecords())
	require.NoError(t, err)

	assert.Equal(t, "jvmci", m.Suite.Name)
	assert.Equal(t, 12, m.Len())

	kind, ok := m.Kind("mx:JUNIT")
	require.True(t, ok)
	assert.Equal(t, KindLibrary, kind)

	lib, ok := m.Library("mx:JUNIT")
	require.True(t, ok)
	assert.Equal(t, "sha1:"+junitSHA1, lib.Digest.String())

	p, ok := m.Project("jdk.vm.ci.runtime")
	require.True(t, ok)
	assert.Equal(t, 8, p.Compliance.Feature)

	native, ok := m.Project("jdk.vm.ci.native")
	require.True(t, ok)
	assert.True(t, native.Native)
	assert.True(t, native.Compliance.IsZero())

	d, ok := m.Distribution("JVMCI_TEST")
	require.True(t, ok)
	assert.True(t, d.Excludes("mx:JUNIT"))
	assert.False(t, d.Excludes("jdk.vm.ci.runtime.test"))

	var ids []string
	for _, dist := range m.Distributions() {
		ids = append(ids, dist.ID)
	}
	assert.Equal(t, []string{"JVMCI", "JVMCI_API", "JVMCI_SERVICES", "JVMCI_SERVICES_PROCESSOR", "JVMCI_TEST"}, ids)
}

func TestLoad_DoesNotAliasRecords(t *testing.T) {
	t.Parallel()

	records := jvmciRecords()
	m, err := Load(records)
	require.NoError(t, err)

	records.Projects[2].Dependencies[0] = "mutated"

	p, _ := m.Project("jdk.vm.ci.runtime")
	assert.Equal(t, "jdk.vm.ci.common", p.Dependencies[0])
}

func TestLoad_NilRecords(t *testing.T) {
	t.Parallel()

	m, err := Load(nil)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate identifier across kinds", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Distributions = append(records.Distributions, DistributionRecord{
			ID: "jdk.vm.ci.common", Projects: []string{"jdk.vm.ci.common"}, Source: "suite.hcl:90",
		})

		_, err := Load(records)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrConfiguration)

		var dup *DuplicateIdentifier
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "jdk.vm.ci.common", dup.ID)
		assert.Equal(t, []Kind{KindProject, KindDistribution}, dup.Kinds)
		assert.Contains(t, err.Error(), "suite.hcl:90")
	})

	t.Run("duplicate identifier within a kind", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Libraries = append(records.Libraries, records.Libraries[0])

		_, err := Load(records)
		var dup *DuplicateIdentifier
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []Kind{KindLibrary, KindLibrary}, dup.Kinds)
	})

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Projects[0].Dependencies = []string{"jdk.vm.ci.missing"}

		_, err := Load(records)
		var unknown *UnknownReference
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "jdk.vm.ci.common", unknown.From)
		assert.Equal(t, "jdk.vm.ci.missing", unknown.To)
		assert.Equal(t, "dependencies", unknown.Field)
	})

	t.Run("unknown overlaps and exclude", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Distributions[4].Overlaps = append(records.Distributions[4].Overlaps, "NOPE")
		records.Distributions[3].Exclude = []string{"mx:HAMCREST"}

		_, err := Load(records)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"JVMCI" references unknown identifier "NOPE" in overlaps`)
		assert.Contains(t, err.Error(), `"JVMCI_TEST" references unknown identifier "mx:HAMCREST" in exclude`)
	})

	t.Run("annotation processor must be a distribution", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Projects[4].AnnotationProcessors = []string{"jdk.vm.ci.services"}

		_, err := Load(records)
		var mismatch *KindMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, KindProject, mismatch.Got)
		assert.Equal(t, []Kind{KindDistribution}, mismatch.Want)
	})

	t.Run("distribution cannot list a library as a project", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Distributions[0].Projects = []string{"mx:JUNIT"}

		_, err := Load(records)
		var mismatch *KindMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "JVMCI_SERVICES", mismatch.From)
		assert.Equal(t, KindLibrary, mismatch.Got)
	})

	t.Run("compliance conflict", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Projects[1].Compliance = "11"

		_, err := Load(records)
		var conflict *ComplianceConflict
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "jdk.vm.ci.runtime", conflict.Project)
		assert.Equal(t, "jdk.vm.ci.services", conflict.Dependency)
	})

	t.Run("missing compliance on non-native project", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Projects[0].Compliance = ""

		_, err := Load(records)
		var invalid *InvalidField
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "compliance", invalid.Field)
	})

	t.Run("bad library hash", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Libraries[0].Hash = "abc"

		_, err := Load(records)
		var invalid *InvalidField
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "hash", invalid.Field)
	})

	t.Run("library without urls", func(t *testing.T) {
		t.Parallel()
		records := jvmciRecords()
		records.Libraries[0].URLs = nil

		_, err := Load(records)
		var invalid *InvalidField
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "urls", invalid.Field)
	})
}

func TestLoad_ReportsAllErrorsInStableOrder(t *testing.T) {
	t.Parallel()

	records := jvmciRecords()
	records.Projects[0].Dependencies = []string{"zzz"}
	records.Projects[1].Dependencies = []string{"aaa"}

	_, err := Load(records)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.True(t, errors.Is(e, ErrConfiguration))
	}
	lines := strings.Split(err.Error(), "\n")
	assert.Contains(t, lines[0], `"jdk.vm.ci.common"`)
	assert.Contains(t, lines[1], `"jdk.vm.ci.services"`)

	_, again := Load(records)
	assert.Equal(t, err.Error(), again.Error())
}
