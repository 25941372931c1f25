// Package stores provides the backing implementations for the
// authentication core's persistent state: the SQL identity table, and the
// Redis-backed short-lived records (banned tokens, two-factor
// challenges).
//
// # Design
//
// Redis records are keyed <prefix>:<id> and rely on store-level TTLs for
// expiry; no implementation runs a cleanup pass. The identity table
// enforces email uniqueness through its primary key, so concurrent
// inserts of the same email resolve inside the database.
//
// # Architecture boundaries
//
// This package owns persistence only. It works in plain strings and its
// own error vocabulary; domain value types, error taxonomy mapping, and
// authentication decisions belong to the root package.
//
// # What this package must NOT do
//
//   - Import the root authcore package.
//   - Log or expose plaintext secrets.
//   - Generate codes, identifiers, or tokens.
package stores
