package flashcard

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sortColumns is the allowlist of sortable columns. The column name is
// interpolated into SQL, so anything outside this map must be refused.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"front":      "front",
}

// Datastore handles persistence operations for flashcards.
// It performs only database operations and returns raw errors.
// Business logic and error translation belong in the Service.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new flashcard datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// List retrieves a page of flashcards for a user in the reduced list
// projection. The limit/offset pair is passed through unclamped; the caller
// owns range validation.
func (ds *Datastore) List(ctx context.Context, userID int64, sort, order string, limit, offset int) ([]ListItem, error) {
	column, ok := sortColumns[sort]
	if !ok {
		return nil, fmt.Errorf("unsupported sort field %q", sort)
	}

	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, front, back, status, created_at
		FROM flashcards
		WHERE user_id = $1
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, column, direction)

	rows, err := ds.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []ListItem
	for rows.Next() {
		item := ListItem{}
		if err := rows.Scan(&item.ID, &item.Front, &item.Back, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Count returns the exact number of flashcards owned by a user.
func (ds *Datastore) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM flashcards WHERE user_id = $1`

	var total int
	if err := ds.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID retrieves a flashcard scoped by id AND owning user id.
// Returns sql.ErrNoRows if no such row exists for that owner.
func (ds *Datastore) GetByID(ctx context.Context, id, userID int64) (*Flashcard, error) {
	query := `
		SELECT id, user_id, front, back, source, status, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND user_id = $2`

	card := &Flashcard{}
	err := ds.db.QueryRowContext(ctx, query, id, userID).Scan(
		&card.ID, &card.UserID, &card.Front, &card.Back, &card.Source,
		&card.Status, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Insert creates a new flashcard and returns the store-assigned id.
func (ds *Datastore) Insert(ctx context.Context, userID int64, front, back string, source *string, status string) (int64, error) {
	query := `
		INSERT INTO flashcards (user_id, front, back, source, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	if err := ds.db.QueryRowContext(ctx, query, userID, front, back, source, status).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateContent updates front and/or back, scoped by id and owning user id.
// Nil fields keep their current value. Returns rows affected.
func (ds *Datastore) UpdateContent(ctx context.Context, id, userID int64, front, back *string) (int64, error) {
	query := `
		UPDATE flashcards
		SET front = COALESCE($3, front), back = COALESCE($4, back), updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := ds.db.ExecContext(ctx, query, id, userID, front, back)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SetStatus updates the status, scoped by id and owning user id.
// Returns rows affected.
func (ds *Datastore) SetStatus(ctx context.Context, id, userID int64, status string) (int64, error) {
	query := `
		UPDATE flashcards
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := ds.db.ExecContext(ctx, query, id, userID, status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a flashcard, scoped by id and owning user id.
// Returns rows affected.
func (ds *Datastore) Delete(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`

	result, err := ds.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
