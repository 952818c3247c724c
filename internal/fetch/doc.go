// Package fetch acquires library bytes: it tries each declared URL in
// order, verifies what it gets against the library's digest and keeps
// verified bytes in a content-addressed cache.
package fetch
