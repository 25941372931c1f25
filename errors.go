package authcore

import "errors"

var (
	// ErrInvalidCredentials is returned when submitted credentials fail
	// structural validation before any store is consulted.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIncorrectCredentials is returned when well-formed credentials do
	// not match a stored identity or challenge. Unknown email and wrong
	// password map to the same value so callers cannot probe for accounts.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	// ErrUserAlreadyExists is returned by signup when the email key is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is the store-level miss for an identity lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSecret is the store-level password hash mismatch.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrChallengeNotFound is returned when no live two-factor challenge
	// exists for the email, either never created or expired.
	ErrChallengeNotFound = errors.New("two-factor challenge not found")
	// ErrMissingToken is returned when no session token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers bad signature, expired, and revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStoreUnavailable wraps backend transport failures. The wrapped
	// cause is for server-side logs only and never crosses the API boundary.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnexpected is a store or dispatch failure not attributable to
	// caller input.
	ErrUnexpected = errors.New("unexpected error")
	// ErrEngineNotReady is returned when the engine is used before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
