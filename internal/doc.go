// Package internal groups the private sub-packages of authcore.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - config — environment-backed process configuration for the server binary
//   - metrics — lock-free outcome counters
//   - stores — Redis and Postgres store backends, string-typed
//
// # What this package must NOT do
//
//   - Export types that appear in the public authcore API.
//   - Be imported by any package outside the authcore module.
package internal
