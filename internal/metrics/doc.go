// Package metrics provides lock-free in-process counters for
// authentication flow outcomes.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation only. The engine
// increments; callers read snapshots.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import any other authcore package.
//   - Expose global metric registries.
package metrics
