// Package dag holds the unified dependency graph over every suite entity.
//
// Libraries, Projects and Distributions share one identifier namespace and
// become nodes of one graph. Edges run from dependent to dependency and are
// tagged with the manifest relationship that produced them. The package
// builds the graph from a validated manifest, rejects cycles with the full
// cycle path, and computes a deterministic build plan and per-node closures.
package dag
