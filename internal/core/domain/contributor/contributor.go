package contributor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("contributor not found")
	ErrDuplicateEmail = errors.New("contributor email already exists")
)

// Contributor is a person who submits recipes. Email is unique and never changes.
type Contributor struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	DisplayName  *string    `json:"display_name,omitempty" db:"display_name"`
	SessionToken *string    `json:"-" db:"session_token"`
	LastActive   *time.Time `json:"last_active,omitempty" db:"last_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// SessionView is the public shape of the current session.
type SessionView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
}

// View converts a contributor into its public session shape.
func (c *Contributor) View(isAdmin bool) *SessionView {
	return &SessionView{ID: c.ID, Email: c.Email, DisplayName: c.DisplayName, IsAdmin: isAdmin}
}
