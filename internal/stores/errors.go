package stores

import "errors"

var (
	// ErrNotFound is the generic record miss.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on a unique-key conflict.
	ErrDuplicate = errors.New("duplicate key")
	// ErrSecretMismatch is returned when a candidate secret does not
	// verify against the stored hash.
	ErrSecretMismatch = errors.New("secret mismatch")
	// ErrBackend wraps transport failures talking to the backing store.
	ErrBackend = errors.New("store backend unavailable")
)
