package user

import (
	"context"
	"database/sql"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for users.
// It performs only database operations and returns raw errors.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new user datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// GetIDByExternalID looks up the internal id for an external identity.
// Returns sql.ErrNoRows if no such user exists.
func (ds *Datastore) GetIDByExternalID(ctx context.Context, externalID string) (int64, error) {
	query := `SELECT id FROM users WHERE external_id = $1`

	var id int64
	if err := ds.db.QueryRowContext(ctx, query, externalID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Insert creates a new user row for an external identity and returns the
// store-assigned id.
func (ds *Datastore) Insert(ctx context.Context, externalID string) (int64, error) {
	query := `
		INSERT INTO users (external_id, password_hash)
		VALUES ($1, $2)
		RETURNING id`

	var id int64
	if err := ds.db.QueryRowContext(ctx, query, externalID, placeholderPasswordHash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a full user record by internal id.
// Returns sql.ErrNoRows if not found.
func (ds *Datastore) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, external_id, COALESCE(email, ''), password_hash, created_at, updated_at
		FROM users WHERE id = $1`

	u := &User{}
	err := ds.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
