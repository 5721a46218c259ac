package ports

import (
	"context"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/google/uuid"
)

// MagicLinkRepository stores single-use sign-in tokens.
type MagicLinkRepository interface {
	Create(ctx context.Context, token *auth.MagicLinkToken) error
	// CountCreatedSince counts tokens issued for email at or after since, used or not.
	CountCreatedSince(ctx context.Context, email string, since time.Time) (int, error)
	// GetUnused returns the unused token with this exact value or auth.ErrTokenNotFound.
	GetUnused(ctx context.Context, token string) (*auth.MagicLinkToken, error)
	// MarkUsed flips used to true only if it is still false. It reports whether this
	// call performed the transition.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
}

// MagicLinkService issues and consumes sign-in links.
type MagicLinkService interface {
	RequestLink(ctx context.Context, email string) error
	// Verify consumes token and returns the email it was issued for.
	Verify(ctx context.Context, token string) (string, error)
}

// SessionService manages the single live session credential of a contributor.
type SessionService interface {
	Open(ctx context.Context, contributorID uuid.UUID) (string, error)
	// Current returns nil without error when credential matches no contributor.
	Current(ctx context.Context, credential string) (*contributor.Contributor, error)
	// Close revokes credential and returns the contributor it belonged to, or nil.
	Close(ctx context.Context, credential string) (*contributor.Contributor, error)
}

// AdminRepository answers admin allow-list membership.
type AdminRepository interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AuthGateService is consulted by every protected page and endpoint.
type AuthGateService interface {
	RequireSession(ctx context.Context, credential string) (*contributor.Contributor, error)
	RequireAdmin(ctx context.Context, credential string) (*contributor.Contributor, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
}
