package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Suites        []*suiteBlock        `hcl:"suite,block"`
	Libraries     []*libraryBlock      `hcl:"library,block"`
	Projects      []*projectBlock      `hcl:"project,block"`
	Distributions []*distributionBlock `hcl:"distribution,block"`
}

type suiteBlock struct {
	Name       string    `hcl:"name,label"`
	MxVersion  string    `hcl:"mx_version,optional"`
	URL        string    `hcl:"url,optional"`
	OutputRoot string    `hcl:"output_root,optional"`
	DefRange   hcl.Range `hcl:",def_range"`
}

type libraryBlock struct {
	ID       string    `hcl:"id,label"`
	URLs     cty.Value `hcl:"urls,optional"`
	SHA1     *string   `hcl:"sha1,optional"`
	SHA256   *string   `hcl:"sha256,optional"`
	SHA512   *string   `hcl:"sha512,optional"`
	BLAKE3   *string   `hcl:"blake3,optional"`
	DefRange hcl.Range `hcl:",def_range"`
}

type projectBlock struct {
	ID                   string    `hcl:"id,label"`
	SubDir               string    `hcl:"sub_dir,optional"`
	SourceDirs           cty.Value `hcl:"source_dirs,optional"`
	Dependencies         cty.Value `hcl:"dependencies,optional"`
	AnnotationProcessors cty.Value `hcl:"annotation_processors,optional"`
	Checkstyle           string    `hcl:"checkstyle,optional"`
	JavaCompliance       string    `hcl:"java_compliance,optional"`
	WorkingSets          string    `hcl:"working_sets,optional"`
	Native               bool      `hcl:"native,optional"`
	Class                string    `hcl:"class,optional"`
	DefRange             hcl.Range `hcl:",def_range"`
}

type distributionBlock struct {
	ID               string    `hcl:"id,label"`
	SubDir           string    `hcl:"sub_dir,optional"`
	Dependencies     cty.Value `hcl:"dependencies,optional"`
	DistDependencies cty.Value `hcl:"dist_dependencies,optional"`
	Overlaps         cty.Value `hcl:"overlaps,optional"`
	Exclude          cty.Value `hcl:"exclude,optional"`
	DefRange         hcl.Range `hcl:",def_range"`
}
