package stores

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTwoFASaveAndGet(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")
	ctx := context.Background()

	in := TwoFAChallenge{AttemptID: "11111111-2222-3333-4444-555555555555", Code: "123456"}
	if err := store.Save(ctx, "a@b.com", in, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != in {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestTwoFAGetMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")

	if _, err := store.Get(context.Background(), "nobody@b.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTwoFASaveReplacesExistingChallenge(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")
	ctx := context.Background()

	first := TwoFAChallenge{AttemptID: "11111111-1111-1111-1111-111111111111", Code: "111111"}
	second := TwoFAChallenge{AttemptID: "22222222-2222-2222-2222-222222222222", Code: "222222"}

	if err := store.Save(ctx, "a@b.com", first, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ctx, "a@b.com", second, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != second {
		t.Fatalf("expected latest challenge, got %+v", got)
	}
}

func TestTwoFAChallengeExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")
	ctx := context.Background()

	in := TwoFAChallenge{AttemptID: "33333333-3333-3333-3333-333333333333", Code: "333333"}
	if err := store.Save(ctx, "a@b.com", in, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, err := store.Get(ctx, "a@b.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestTwoFADeleteIdempotent(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")
	ctx := context.Background()

	in := TwoFAChallenge{AttemptID: "44444444-4444-4444-4444-444444444444", Code: "444444"}
	if err := store.Save(ctx, "a@b.com", in, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := store.Delete(ctx, "a@b.com"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	// Absent challenge: still no error.
	if err := store.Delete(ctx, "a@b.com"); err != nil {
		t.Fatalf("second Delete error: %v", err)
	}
	if err := store.Delete(ctx, "never@b.com"); err != nil {
		t.Fatalf("Delete of never-saved challenge: %v", err)
	}
}

func TestTwoFAKeyLayout(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewTwoFAChallengeStore(rdb, "two_fa_code")
	ctx := context.Background()

	in := TwoFAChallenge{AttemptID: "55555555-5555-5555-5555-555555555555", Code: "555555"}
	if err := store.Save(ctx, "a@b.com", in, 10*time.Minute); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !mr.Exists("two_fa_code:a@b.com") {
		t.Fatal("challenge not keyed <prefix>:<email>")
	}
}
