// Package token issues and verifies the signed, self-contained session
// tokens carried by callers between requests.
//
// # Format
//
// Tokens are compact JWTs (three dot-separated base64url segments) signed
// with HS256 over a claim set of at least the subject email and an absolute
// expiry. No server-side record exists on issuance.
//
// # Architecture boundaries
//
// This package owns cryptographic and temporal validity only. Revocation is
// a separate store consulted by the engine; a token this package accepts may
// still be rejected upstream.
//
// # What this package must NOT do
//
//   - Consult any store or perform I/O.
//   - Log token contents or the signing key.
//   - Import any other authcore package.
package token
