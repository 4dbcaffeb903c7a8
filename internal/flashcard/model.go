package flashcard

import "time"

// Flashcard statuses. StatusRejected is part of the API vocabulary but no
// transition produces it: rejecting a card deletes the row.
const (
	StatusProposal = "proposal"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Flashcard is the full record returned by detail reads.
type Flashcard struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Source    *string   `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListItem is the reduced projection used by list reads. Source and
// updated_at are withheld to keep list payloads small.
type ListItem struct {
	ID        int64     `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes the page of results returned by List.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Page is the List result: the items plus pagination metadata.
type Page struct {
	Flashcards []ListItem `json:"flashcards"`
	Pagination Pagination `json:"pagination"`
}

// ListParams are the pagination and sorting options for List.
// Zero values are replaced by defaults.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

// List defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "created_at"
	DefaultOrder = "desc"
)

func (p ListParams) withDefaults() ListParams {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Sort == "" {
		p.Sort = DefaultSort
	}
	if p.Order == "" {
		p.Order = DefaultOrder
	}
	return p
}

// CreateParams holds the fields for creating a flashcard.
type CreateParams struct {
	Front  string
	Back   string
	Source *string
	Status string // defaults to StatusProposal when empty
}

// UpdateParams holds the editable fields. Nil fields are left unchanged.
type UpdateParams struct {
	Front *string
	Back  *string
}
