// Package audit provides asynchronous, non-blocking dispatch of structured
// authentication events (signups, logins, two-factor outcomes, revocations)
// to pluggable sinks.
//
// # Architecture boundaries
//
// The engine emits; sinks consume. Dispatch happens on a dedicated worker
// goroutine fed by a buffered channel, so a slow sink can delay or drop
// audit events but never an authentication flow.
//
// # What this package must NOT do
//
//   - Carry secrets in event payloads.
//   - Block the emitting flow (beyond an optional bounded buffer wait).
//   - Import any other authcore package.
package audit
