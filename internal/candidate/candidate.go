// Package candidate holds AI-generated flashcard candidates while they wait
// for user review. Candidates are transient: they expire after a TTL and are
// consumed at most once, on accept.
package candidate

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a candidate stays reviewable.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned when a candidate does not exist, belongs to a
// different user, has expired, or was already consumed.
var ErrNotFound = errors.New("candidate not found")

// Candidate is a generated flashcard pending review.
type Candidate struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	SourceText string    `json:"source_text"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store defines how candidates are held between generation and review.
type Store interface {
	// Put stores a candidate until it expires or is consumed.
	Put(ctx context.Context, c Candidate) error

	// Consume removes and returns a candidate. A second Consume for the
	// same id, or a Consume by a different user, returns ErrNotFound.
	Consume(ctx context.Context, userID int64, id string) (*Candidate, error)

	// Discard removes a candidate without returning it.
	Discard(ctx context.Context, userID int64, id string) error
}
