package manifest

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest file found under the given paths and returns
	// the combined, not yet validated, records.
	Load(ctx context.Context, paths ...string) (*Records, error)
}

// Records is the raw, already-parsed record set for one suite. Entities are
// kept as lists so that a loader can hand over duplicates for Load to report.
type Records struct {
	Suite         SuiteRecord
	Libraries     []LibraryRecord
	Projects      []ProjectRecord
	Distributions []DistributionRecord
}

// SuiteRecord holds the suite header.
type SuiteRecord struct {
	Name       string
	MxVersion  string
	URL        string
	OutputRoot string
}

// LibraryRecord is an external binary dependency as declared.
type LibraryRecord struct {
	ID            string
	URLs          []string
	HashAlgorithm string
	Hash          string
	Source        string
}

// ProjectRecord is a compilable unit as declared.
type ProjectRecord struct {
	ID                   string
	SubDir               string
	SourceDirs           []string
	Dependencies         []string
	AnnotationProcessors []string
	Checkstyle           string
	Compliance           string
	WorkingSets          []string
	Native               bool
	Class                string
	Source               string
}

// DistributionRecord is a packaged artifact as declared.
type DistributionRecord struct {
	ID               string
	SubDir           string
	Projects         []string
	DistDependencies []string
	Overlaps         []string
	Exclude          []string
	Source           string
}
