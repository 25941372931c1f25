// Package authcore provides an authentication engine with password
// credentials, an optional email-delivered second factor, signed
// stateless session tokens, and explicit revocation on logout.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder],
// [Config], the store interfaces, and the validated value types (Email,
// Password, TwoFACode, LoginAttemptID). Backend drivers, audit
// dispatch, and metric counters live under internal/ and are never
// exported; token signing and password hashing live in the token and
// password sub-packages.
//
// # What this package must NOT do
//
//   - Expose raw secrets in logs, errors, or serialized output; the
//     value types redact themselves everywhere except an explicit
//     Expose call.
//   - Perform I/O outside of Engine methods (construction via Builder
//     is allocation-only until Build).
//   - Import any sub-package that re-imports authcore (no import
//     cycles).
//
// # Performance contract
//
// ValidateToken is the hot path: one revocation-store lookup plus a
// signature check, no credential-store access. Password hashing is
// CPU-bound and runs on a bounded worker pool so signup bursts cannot
// starve token validation.
package authcore
