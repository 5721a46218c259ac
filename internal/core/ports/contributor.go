package ports

import (
	"context"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/google/uuid"
)

// ContributorRepository defines the interface for contributor data operations
type ContributorRepository interface {
	// Create inserts c and returns contributor.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, c *contributor.Contributor) error
	GetByID(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error)
	GetByEmail(ctx context.Context, email string) (*contributor.Contributor, error)
	GetBySessionToken(ctx context.Context, token string) (*contributor.Contributor, error)
	// SetSessionToken overwrites the session credential and last_active in one write.
	SetSessionToken(ctx context.Context, id uuid.UUID, token string, at time.Time) error
	TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
	// ClearSessionToken nulls the credential only if it still equals token.
	ClearSessionToken(ctx context.Context, id uuid.UUID, token string) (bool, error)
}

// IdentityService maps a verified email to exactly one contributor.
type IdentityService interface {
	Resolve(ctx context.Context, email string) (*contributor.Contributor, error)
}
