// Package manifest defines the format-agnostic records a loader produces and
// the immutable Manifest built from them.
//
// Records are what a format-specific loader (see internal/hcl) hands over:
// flat lists of libraries, projects and distributions with their declared
// references. Load validates those records and freezes them into a Manifest,
// which is the single source of truth for the graph, planner and composers.
// Nothing downstream mutates a Manifest; a changed suite is loaded again.
package manifest
