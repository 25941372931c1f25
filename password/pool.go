package password

import (
	"context"
	"errors"
)

// Pool bounds how many argon2 derivations run at once. Hashing is
// CPU-bound and far slower than any store round-trip; without a bound a
// burst of signups or logins would occupy every scheduler thread and
// starve unrelated I/O-bound requests.
//
// Admission is a counting semaphore: callers block until a slot frees or
// their context is cancelled, then run the derivation on their own
// goroutine.
type Pool struct {
	hasher *Hasher
	slots  chan struct{}
}

// NewPool wraps hasher with a bound of maxConcurrent derivations.
func NewPool(hasher *Hasher, maxConcurrent int) (*Pool, error) {
	if hasher == nil {
		return nil, errors.New("hasher required")
	}
	if maxConcurrent <= 0 {
		return nil, errors.New("maxConcurrent must be positive")
	}
	return &Pool{
		hasher: hasher,
		slots:  make(chan struct{}, maxConcurrent),
	}, nil
}

// Hash derives a hash of secret, waiting for a pool slot first.
func (p *Pool) Hash(ctx context.Context, secret string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()
	return p.hasher.Hash(secret)
}

// Verify checks candidate against encodedHash, waiting for a pool slot
// first.
func (p *Pool) Verify(ctx context.Context, candidate, encodedHash string) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.release()
	return p.hasher.Verify(candidate, encodedHash)
}

func (p *Pool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() {
	<-p.slots
}
