// Package integrity verifies fetched library bytes against the content hash
// declared in the manifest. A library only takes part in a build once its
// bytes have produced a Verified result.
package integrity
