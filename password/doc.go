// Package password implements memory-hard password hashing and
// verification with argon2id.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Cost parameters are fixed at construction so every stored hash stays
// verifiable; verification reads the parameters back out of the encoded
// hash and compares in constant time.
//
// # Scheduling
//
// Both operations are CPU-expensive. [Pool] bounds their concurrency so
// hashing never monopolizes the scheduler threads that service network
// requests; all engine-facing hashing goes through a Pool.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Enforce password policy (length rules live with request validation).
//   - Log plaintext secrets or hash parameters at runtime.
package password
