// Package store provides a SQLite-backed catalog of composition snapshots.
//
// A snapshot is a composition document frozen at save time, addressed two
// ways: by a generated ID (UUIDv7) and by the digest of its canonical JSON.
//
// # Patterns
//
// Content addressing:
//   - UNIQUE(digest) constraint
//   - Saving a document whose content already exists returns the existing
//     snapshot instead of creating a new one
//
// Logical ordering:
//   - Every snapshot gets a seq from a monotonic clock resumed from MAX(seq)
//   - Listings use ORDER BY seq ASC, id ASC COLLATE BINARY, never wall time
package store
