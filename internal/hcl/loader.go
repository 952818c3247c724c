package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/fsutil"
	"github.com/specialistvlad/suiteplan/internal/integrity"
	"github.com/specialistvlad/suiteplan/internal/manifest"
)

// Loader is the HCL implementation of manifest.Loader.
type Loader struct{}

var _ manifest.Loader = (*Loader)(nil)

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths, in lexical order, and
// returns the combined records. Validation of the records is left to
// manifest.Load.
func (l *Loader) Load(ctx context.Context, paths ...string) (*manifest.Records, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("finding manifest files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	records := &manifest.Records{}
	parser := hclparse.NewParser()
	var suiteDef *hcl.Range

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, s := range root.Suites {
			if suiteDef != nil {
				return nil, fmt.Errorf("%s: suite already declared at %s", source(s.DefRange), source(*suiteDef))
			}
			r := s.DefRange
			suiteDef = &r
			records.Suite = manifest.SuiteRecord{
				Name:       s.Name,
				MxVersion:  s.MxVersion,
				URL:        s.URL,
				OutputRoot: s.OutputRoot,
			}
		}

		var errs []error
		for _, b := range root.Libraries {
			r, err := translateLibrary(b)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			records.Libraries = append(records.Libraries, r)
		}
		for _, b := range root.Projects {
			r, err := translateProject(b)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			records.Projects = append(records.Projects, r)
		}
		for _, b := range root.Distributions {
			r, err := translateDistribution(b)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			records.Distributions = append(records.Distributions, r)
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	}

	logger.Debug("HCL loading complete.",
		"suite", records.Suite.Name,
		"libraries", len(records.Libraries),
		"projects", len(records.Projects),
		"distributions", len(records.Distributions),
	)
	return records, nil
}

func translateLibrary(b *libraryBlock) (manifest.LibraryRecord, error) {
	src := source(b.DefRange)
	urls, err := stringList("urls", b.URLs)
	if err != nil {
		return manifest.LibraryRecord{}, fmt.Errorf("%s: library %q: %w", src, b.ID, err)
	}

	hashes := map[integrity.Algorithm]*string{
		integrity.SHA1:   b.SHA1,
		integrity.SHA256: b.SHA256,
		integrity.SHA512: b.SHA512,
		integrity.BLAKE3: b.BLAKE3,
	}
	r := manifest.LibraryRecord{ID: b.ID, URLs: urls, Source: src}
	for _, alg := range integrity.Algorithms {
		v := hashes[alg]
		if v == nil {
			continue
		}
		if r.HashAlgorithm != "" {
			return manifest.LibraryRecord{}, fmt.Errorf("%s: library %q declares both %s and %s", src, b.ID, r.HashAlgorithm, alg)
		}
		r.HashAlgorithm, r.Hash = string(alg), *v
	}
	if r.HashAlgorithm == "" {
		return manifest.LibraryRecord{}, fmt.Errorf("%s: library %q declares no hash (one of sha1, sha256, sha512, blake3)", src, b.ID)
	}
	return r, nil
}

func translateProject(b *projectBlock) (manifest.ProjectRecord, error) {
	src := source(b.DefRange)
	r := manifest.ProjectRecord{
		ID:          b.ID,
		SubDir:      b.SubDir,
		Checkstyle:  b.Checkstyle,
		Compliance:  b.JavaCompliance,
		WorkingSets: splitList(b.WorkingSets),
		Native:      b.Native,
		Class:       b.Class,
		Source:      src,
	}
	var err error
	if r.SourceDirs, err = stringList("source_dirs", b.SourceDirs); err != nil {
		return r, fmt.Errorf("%s: project %q: %w", src, b.ID, err)
	}
	if r.Dependencies, err = stringList("dependencies", b.Dependencies); err != nil {
		return r, fmt.Errorf("%s: project %q: %w", src, b.ID, err)
	}
	if r.AnnotationProcessors, err = stringList("annotation_processors", b.AnnotationProcessors); err != nil {
		return r, fmt.Errorf("%s: project %q: %w", src, b.ID, err)
	}
	return r, nil
}

func translateDistribution(b *distributionBlock) (manifest.DistributionRecord, error) {
	src := source(b.DefRange)
	r := manifest.DistributionRecord{ID: b.ID, SubDir: b.SubDir, Source: src}
	var err error
	if r.Projects, err = stringList("dependencies", b.Dependencies); err != nil {
		return r, fmt.Errorf("%s: distribution %q: %w", src, b.ID, err)
	}
	if r.DistDependencies, err = stringList("dist_dependencies", b.DistDependencies); err != nil {
		return r, fmt.Errorf("%s: distribution %q: %w", src, b.ID, err)
	}
	if r.Overlaps, err = stringList("overlaps", b.Overlaps); err != nil {
		return r, fmt.Errorf("%s: distribution %q: %w", src, b.ID, err)
	}
	if r.Exclude, err = stringList("exclude", b.Exclude); err != nil {
		return r, fmt.Errorf("%s: distribution %q: %w", src, b.ID, err)
	}
	return r, nil
}

// source renders a block position as "file:line".
func source(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
