package manifest

import (
	"sort"

	"github.com/specialistvlad/suiteplan/internal/integrity"
)

// Kind tags the three entity kinds that share one identifier namespace.
type Kind int

const (
	KindLibrary Kind = iota + 1
	KindProject
	KindDistribution
)

func (k Kind) String() string {
	switch k {
	case KindLibrary:
		return "library"
	case KindProject:
		return "project"
	case KindDistribution:
		return "distribution"
	}
	return "unknown"
}

// Suite is the validated suite header.
type Suite struct {
	Name       string
	MxVersion  string
	URL        string
	OutputRoot string
}

// Library is an external, hash-verified binary. It never depends on anything.
type Library struct {
	ID     string
	URLs   []string
	Digest integrity.Digest
	Source string
}

// Verify checks fetched bytes against the library's declared digest.
func (l *Library) Verify(data []byte) (integrity.Verified, error) {
	return integrity.Verify(l.ID, l.Digest, data)
}

// Project is a compilable source unit.
type Project struct {
	ID                   string
	SubDir               string
	SourceDirs           []string
	Dependencies         []string
	AnnotationProcessors []string
	// Checkstyle names the project whose style rules apply. It is a
	// validation-time lookup only and never orders the build.
	Checkstyle  string
	Compliance  Compliance
	WorkingSets []string
	// Native projects are built out-of-band by an external build step.
	Native bool
	Class  string
	Source string
}

// Distribution is a packaged artifact composed from projects.
type Distribution struct {
	ID               string
	SubDir           string
	Projects         []string
	DistDependencies []string
	Overlaps         []string
	Exclude          []string
	Source           string
}

// Excludes reports whether id is on the distribution's exclude list.
func (d *Distribution) Excludes(id string) bool {
	for _, e := range d.Exclude {
		if e == id {
			return true
		}
	}
	return false
}

// Manifest is the frozen, validated snapshot of a suite. Entities returned by
// its accessors are shared and must be treated as read-only.
type Manifest struct {
	Suite Suite

	libraries     map[string]*Library
	projects      map[string]*Project
	distributions map[string]*Distribution
}

// Kind returns the kind of the entity declared under id.
func (m *Manifest) Kind(id string) (Kind, bool) {
	if _, ok := m.libraries[id]; ok {
		return KindLibrary, true
	}
	if _, ok := m.projects[id]; ok {
		return KindProject, true
	}
	if _, ok := m.distributions[id]; ok {
		return KindDistribution, true
	}
	return 0, false
}

func (m *Manifest) Library(id string) (*Library, bool) {
	l, ok := m.libraries[id]
	return l, ok
}

func (m *Manifest) Project(id string) (*Project, bool) {
	p, ok := m.projects[id]
	return p, ok
}

func (m *Manifest) Distribution(id string) (*Distribution, bool) {
	d, ok := m.distributions[id]
	return d, ok
}

// Libraries returns all libraries sorted by identifier.
func (m *Manifest) Libraries() []*Library {
	out := make([]*Library, 0, len(m.libraries))
	for _, id := range sortedKeys(m.libraries) {
		out = append(out, m.libraries[id])
	}
	return out
}

// Projects returns all projects sorted by identifier.
func (m *Manifest) Projects() []*Project {
	out := make([]*Project, 0, len(m.projects))
	for _, id := range sortedKeys(m.projects) {
		out = append(out, m.projects[id])
	}
	return out
}

// Distributions returns all distributions sorted by identifier.
func (m *Manifest) Distributions() []*Distribution {
	out := make([]*Distribution, 0, len(m.distributions))
	for _, id := range sortedKeys(m.distributions) {
		out = append(out, m.distributions[id])
	}
	return out
}

// Len is the number of declared entities across all kinds.
func (m *Manifest) Len() int {
	return len(m.libraries) + len(m.projects) + len(m.distributions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
