package candidate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_ConsumeIsOneShot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c := Candidate{ID: "cand-1", UserID: 42, Front: "f", Back: "b"}
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Consume(ctx, 42, "cand-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Front != "f" || got.Back != "b" {
		t.Errorf("unexpected candidate: %+v", got)
	}

	if _, err := s.Consume(ctx, 42, "cand-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected second consume to miss, got %v", err)
	}
}

func TestMemoryStore_ConsumeWrongUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, Candidate{ID: "cand-1", UserID: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Consume(ctx, 99, "cand-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user's candidate, got %v", err)
	}

	// The owner can still consume it afterwards.
	if _, err := s.Consume(ctx, 42, "cand-1"); err != nil {
		t.Errorf("owner consume failed: %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	s.now = func() time.Time { return current }

	if err := s.Put(ctx, Candidate{ID: "cand-1", UserID: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current = current.Add(DefaultTTL + time.Minute)

	if _, err := s.Consume(ctx, 42, "cand-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired candidate to miss, got %v", err)
	}
}

func TestMemoryStore_Discard(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, Candidate{ID: "cand-1", UserID: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Discard(ctx, 42, "cand-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Consume(ctx, 42, "cand-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected discarded candidate to miss, got %v", err)
	}
}

func TestMemoryStore_DiscardMissing(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Discard(context.Background(), 42, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_PutSetsDefaultExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, Candidate{ID: "cand-1", UserID: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Consume(ctx, 42, "cand-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExpiresAt.IsZero() {
		t.Error("expected Put to set a default expiry")
	}
}
