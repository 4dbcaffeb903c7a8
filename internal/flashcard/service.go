package flashcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Domain errors returned by the Service.
var (
	ErrNotFound = errors.New("flashcard not found")
)

// IdentityResolver maps an external auth-provider identity to an internal
// user id.
type IdentityResolver interface {
	Resolve(ctx context.Context, externalID string) (int64, error)
}

// Service handles business logic for flashcards. Every operation resolves
// the caller's external identity to an internal user id first, and every
// read and write is scoped by that id so cross-user access is impossible at
// the query level, independent of any row-level security in the store.
type Service struct {
	ds       *Datastore
	resolver IdentityResolver
}

// NewService creates a new flashcard service.
func NewService(ds *Datastore, resolver IdentityResolver) *Service {
	return &Service{ds: ds, resolver: resolver}
}

// List returns a page of the user's flashcards in the reduced projection,
// with pagination metadata. Missing params fall back to page=1, limit=10,
// created_at descending. The offset is (page-1)*limit, unclamped: range
// validation is the transport layer's responsibility.
func (s *Service) List(ctx context.Context, externalID string, params ListParams) (*Page, error) {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	params = params.withDefaults()
	offset := (params.Page - 1) * params.Limit

	items, err := s.ds.List(ctx, userID, params.Sort, params.Order, params.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	total, err := s.ds.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if items == nil {
		items = []ListItem{}
	}

	return &Page{
		Flashcards: items,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}, nil
}

// GetByID returns a single flashcard in the full projection.
// Returns ErrNotFound when no row exists for that id and owner; any other
// store error is surfaced as a failure.
func (s *Service) GetByID(ctx context.Context, externalID string, id int64) (*Flashcard, error) {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	card, err := s.ds.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return card, nil
}

// Create inserts a new flashcard and returns its id. Status defaults to
// proposal when the caller does not supply one.
func (s *Service) Create(ctx context.Context, externalID string, params CreateParams) (int64, error) {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return 0, err
	}

	status := params.Status
	if status == "" {
		status = StatusProposal
	}

	id, err := s.ds.Insert(ctx, userID, params.Front, params.Back, params.Source, status)
	if err != nil {
		return 0, fmt.Errorf("create failed: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("create failed: no id returned")
	}

	return id, nil
}

// Update modifies front and/or back. A mismatched owner or unknown id
// updates zero rows and is reported as ErrNotFound rather than silent
// success.
func (s *Service) Update(ctx context.Context, externalID string, id int64, params UpdateParams) error {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.ds.UpdateContent(ctx, id, userID, params.Front, params.Back)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Approve transitions a flashcard from proposal to approved.
func (s *Service) Approve(ctx context.Context, externalID string, id int64) error {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.ds.SetStatus(ctx, id, userID, StatusApproved)
	if err != nil {
		return fmt.Errorf("approve failed: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reject removes a flashcard. Rejection is a hard delete: the rejected
// status value exists in the vocabulary but is never written.
func (s *Service) Reject(ctx context.Context, externalID string, id int64) error {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.ds.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("reject failed: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a flashcard.
func (s *Service) Delete(ctx context.Context, externalID string, id int64) error {
	userID, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.ds.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
