// Package storage defines the catalog export interfaces.
//
// The export is a derived snapshot of the sink's variant collections. It is
// rewritten on every import run and never read back by the sink.
// Implementations (e.g., SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
package storage
