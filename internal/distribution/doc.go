// Package distribution computes what each distribution packages and checks
// declared overlaps between distributions against that content.
package distribution
