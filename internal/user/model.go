package user

import "time"

// User is the internal user record. The external identity string issued by
// the auth provider lives in its own column; Email is contact information
// and may be empty.
type User struct {
	ID           int64     `json:"id"`
	ExternalID   string    `json:"external_id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// placeholderPasswordHash marks rows created by the resolver. Credentials
// are owned by the hosted auth provider, never by this service.
const placeholderPasswordHash = "placeholder"
