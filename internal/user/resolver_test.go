package user

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestResolver_Resolve_ExistingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	r := NewResolver(NewDatastore(db))

	mock.ExpectQuery(`SELECT id FROM users WHERE external_id = \$1`).
		WithArgs("auth-user-123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := r.Resolve(context.Background(), "auth-user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestResolver_Resolve_CreatesOnFirstSight(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	r := NewResolver(NewDatastore(db))

	mock.ExpectQuery(`SELECT id FROM users WHERE external_id = \$1`).
		WithArgs("auth-user-123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("auth-user-123", "placeholder").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := r.Resolve(context.Background(), "auth-user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("expected id 7, got %d", id)
	}
}

func TestResolver_Resolve_SameIDAcrossCalls(t *testing.T) {
	// First call creates the row, second call finds it; both return the same id.
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	r := NewResolver(NewDatastore(db))
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id FROM users WHERE external_id = \$1`).
		WithArgs("auth-user-123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("auth-user-123", "placeholder").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	mock.ExpectQuery(`SELECT id FROM users WHERE external_id = \$1`).
		WithArgs("auth-user-123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	first, err := r.Resolve(ctx, "auth-user-123")
	if err != nil {
		t.Fatalf("unexpected error on first resolve: %v", err)
	}
	second, err := r.Resolve(ctx, "auth-user-123")
	if err != nil {
		t.Fatalf("unexpected error on second resolve: %v", err)
	}

	if first != second {
		t.Errorf("expected both resolves to return the same id, got %d and %d", first, second)
	}
}

func TestResolver_Resolve_InsertFailureFallsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	r := NewResolver(NewDatastore(db))

	mock.ExpectQuery(`SELECT id FROM users WHERE external_id = \$1`).
		WithArgs("user-0000cafe").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("user-0000cafe", "placeholder").
		WillReturnError(errors.New("row-level security violation"))

	id, err := r.Resolve(context.Background(), "user-0000cafe")
	if err != nil {
		t.Fatalf("expected fallback to swallow insert error, got: %v", err)
	}

	// Last 8 chars "0000cafe" as hex.
	if id != 0xcafe {
		t.Errorf("expected pseudo-id %d, got %d", 0xcafe, id)
	}
}

func TestResolver_Resolve_EmptyExternalID(t *testing.T) {
	r := NewResolver(NewDatastore(nil)) // nil db is fine, we won't hit it

	_, err := r.Resolve(context.Background(), "")
	if err != ErrInvalidExternalID {
		t.Errorf("expected ErrInvalidExternalID, got %v", err)
	}
}

func TestPseudoID(t *testing.T) {
	tests := []struct {
		name       string
		externalID string
		want       int64
	}{
		{"hex suffix", "auth0|0000cafe", 0xcafe},
		{"short hex id", "ff", 0xff},
		{"non-hex suffix defaults to 1", "auth-user-xyz", 1},
		{"zero parses to default", "00000000", 1},
		{"long id uses last 8 chars", "abcdef1234567890deadbeef", 0xdeadbeef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pseudoID(tt.externalID); got != tt.want {
				t.Errorf("pseudoID(%q) = %d, want %d", tt.externalID, got, tt.want)
			}
		})
	}
}
