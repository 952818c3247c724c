package manifest

import (
	"errors"
	"slices"
	"sort"

	"github.com/specialistvlad/suiteplan/internal/integrity"
)

type declaration struct {
	kind   Kind
	source string
}

// Load validates records and freezes them into a Manifest. Every problem
// found is reported at once: the returned error joins one typed error per
// problem, ordered by message so repeated loads report identically.
func Load(records *Records) (*Manifest, error) {
	if records == nil {
		records = &Records{}
	}
	m := &Manifest{
		Suite:         Suite(records.Suite),
		libraries:     make(map[string]*Library),
		projects:      make(map[string]*Project),
		distributions: make(map[string]*Distribution),
	}
	var errs []error

	// First pass: claim identifiers. The first declaration of an identifier
	// wins; later ones are reported and dropped.
	decls := make(map[string][]declaration)
	claim := func(id string, kind Kind, source string) bool {
		if id == "" {
			errs = append(errs, &InvalidField{ID: id, Field: "identifier", Reason: "must not be empty", Source: source})
			return false
		}
		decls[id] = append(decls[id], declaration{kind: kind, source: source})
		return len(decls[id]) == 1
	}

	for _, r := range records.Libraries {
		if !claim(r.ID, KindLibrary, r.Source) {
			continue
		}
		lib, fieldErrs := newLibrary(r)
		errs = append(errs, fieldErrs...)
		m.libraries[r.ID] = lib
	}
	for _, r := range records.Projects {
		if !claim(r.ID, KindProject, r.Source) {
			continue
		}
		p, fieldErrs := newProject(r)
		errs = append(errs, fieldErrs...)
		m.projects[r.ID] = p
	}
	for _, r := range records.Distributions {
		if !claim(r.ID, KindDistribution, r.Source) {
			continue
		}
		m.distributions[r.ID] = newDistribution(r)
	}

	for _, id := range sortedKeys(decls) {
		ds := decls[id]
		if len(ds) < 2 {
			continue
		}
		dup := &DuplicateIdentifier{ID: id}
		for _, d := range ds {
			dup.Kinds = append(dup.Kinds, d.kind)
			dup.Sources = append(dup.Sources, d.source)
		}
		errs = append(errs, dup)
	}

	// Second pass: every reference must resolve, to the right kind.
	errs = append(errs, m.checkReferences()...)
	errs = append(errs, m.checkCompliance()...)

	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func newLibrary(r LibraryRecord) (*Library, []error) {
	var errs []error
	lib := &Library{ID: r.ID, URLs: slices.Clone(r.URLs), Source: r.Source}
	if len(r.URLs) == 0 {
		errs = append(errs, &InvalidField{ID: r.ID, Field: "urls", Reason: "at least one URL is required", Source: r.Source})
	}
	for _, u := range r.URLs {
		if u == "" {
			errs = append(errs, &InvalidField{ID: r.ID, Field: "urls", Reason: "empty URL", Source: r.Source})
		}
	}
	d, err := integrity.ParseDigest(r.HashAlgorithm, r.Hash)
	if err != nil {
		errs = append(errs, &InvalidField{ID: r.ID, Field: "hash", Reason: err.Error(), Source: r.Source})
	}
	lib.Digest = d
	return lib, errs
}

func newProject(r ProjectRecord) (*Project, []error) {
	var errs []error
	p := &Project{
		ID:                   r.ID,
		SubDir:               r.SubDir,
		SourceDirs:           slices.Clone(r.SourceDirs),
		Dependencies:         slices.Clone(r.Dependencies),
		AnnotationProcessors: slices.Clone(r.AnnotationProcessors),
		Checkstyle:           r.Checkstyle,
		WorkingSets:          slices.Clone(r.WorkingSets),
		Native:               r.Native,
		Class:                r.Class,
		Source:               r.Source,
	}
	switch {
	case r.Compliance != "":
		c, err := ParseCompliance(r.Compliance)
		if err != nil {
			errs = append(errs, &InvalidField{ID: r.ID, Field: "compliance", Reason: err.Error(), Source: r.Source})
		}
		p.Compliance = c
	case !r.Native:
		errs = append(errs, &InvalidField{ID: r.ID, Field: "compliance", Reason: "required for non-native projects", Source: r.Source})
	}
	return p, errs
}

func newDistribution(r DistributionRecord) *Distribution {
	return &Distribution{
		ID:               r.ID,
		SubDir:           r.SubDir,
		Projects:         slices.Clone(r.Projects),
		DistDependencies: slices.Clone(r.DistDependencies),
		Overlaps:         slices.Clone(r.Overlaps),
		Exclude:          slices.Clone(r.Exclude),
		Source:           r.Source,
	}
}

func (m *Manifest) checkReferences() []error {
	var errs []error
	check := func(from, field, source string, refs []string, want ...Kind) {
		for _, to := range refs {
			kind, ok := m.Kind(to)
			if !ok {
				errs = append(errs, &UnknownReference{From: from, Field: field, To: to, Source: source})
				continue
			}
			if len(want) > 0 && !slices.Contains(want, kind) {
				errs = append(errs, &KindMismatch{From: from, Field: field, To: to, Got: kind, Want: want, Source: source})
			}
		}
	}

	for _, p := range m.Projects() {
		check(p.ID, "dependencies", p.Source, p.Dependencies, KindProject, KindLibrary)
		check(p.ID, "annotation_processors", p.Source, p.AnnotationProcessors, KindDistribution)
		if p.Checkstyle != "" {
			check(p.ID, "checkstyle", p.Source, []string{p.Checkstyle}, KindProject)
		}
	}
	for _, d := range m.Distributions() {
		check(d.ID, "dependencies", d.Source, d.Projects, KindProject)
		check(d.ID, "dist_dependencies", d.Source, d.DistDependencies, KindDistribution)
		check(d.ID, "overlaps", d.Source, d.Overlaps, KindDistribution)
		check(d.ID, "exclude", d.Source, d.Exclude)
	}
	return errs
}

func (m *Manifest) checkCompliance() []error {
	var errs []error
	for _, p := range m.Projects() {
		if p.Compliance.IsZero() {
			continue
		}
		for _, depID := range p.Dependencies {
			dep, ok := m.projects[depID]
			if !ok || dep.Compliance.IsZero() {
				continue
			}
			if dep.Compliance.Compare(p.Compliance) > 0 {
				errs = append(errs, &ComplianceConflict{
					Project:         p.ID,
					ProjectLevel:    p.Compliance,
					Dependency:      dep.ID,
					DependencyLevel: dep.Compliance,
					Source:          p.Source,
				})
			}
		}
	}
	return errs
}
