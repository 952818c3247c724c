// Package executor resolves every library of a planned graph concurrently
// and propagates failures to the nodes that depend on them.
//
// Nodes are released to a fixed worker pool as soon as all of their
// dependencies have succeeded. Library nodes are fetched and verified;
// project and distribution nodes only join on their dependencies, since
// compiling and packaging happen outside this package. A failure marks
// every transitive dependent as blocked without canceling independent
// work, so the run returns a partial report.
package executor
