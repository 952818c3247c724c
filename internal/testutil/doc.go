// Package testutil provides shared helpers for end-to-end tests: a harness
// that runs the app against a temporary HCL suite, output decoders, and an
// HTTP server for library artifacts.
package testutil
