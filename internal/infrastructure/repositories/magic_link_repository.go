package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MagicLinkRepository stores sign-in tokens in magic_link_tokens.
type MagicLinkRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewMagicLinkRepository creates a new magic link repository
func NewMagicLinkRepository(database *db.Database, logger *logrus.Logger) ports.MagicLinkRepository {
	return &MagicLinkRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new unused token
func (r *MagicLinkRepository) Create(ctx context.Context, t *auth.MagicLinkToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
		INSERT INTO magic_link_tokens (id, email, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query, t.ID, t.Email, t.Token, t.ExpiresAt, t.Used, t.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"token_id": t.ID, "email": t.Email}).WithError(err).Error("db: failed to create magic link token")
		}
		return fmt.Errorf("failed to create magic link token: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"token_id": t.ID, "email": t.Email}).Debug("db: magic link token created")
	}
	return nil
}

// CountCreatedSince counts tokens issued to email since the given instant
func (r *MagicLinkRepository) CountCreatedSince(ctx context.Context, email string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM magic_link_tokens WHERE email = $1 AND created_at >= $2`

	if err := r.db.DB.GetContext(ctx, &count, query, email, since); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to count magic link tokens")
		}
		return 0, fmt.Errorf("failed to count magic link tokens: %w", err)
	}
	return count, nil
}

// GetUnused retrieves an unused token by its exact value
func (r *MagicLinkRepository) GetUnused(ctx context.Context, token string) (*auth.MagicLinkToken, error) {
	var t auth.MagicLinkToken
	query := `
		SELECT id, email, token, expires_at, used, created_at
		FROM magic_link_tokens
		WHERE token = $1 AND used = false`

	err := r.db.DB.GetContext(ctx, &t, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.logger != nil {
				r.logger.Debug("db: unused magic link token not found")
			}
			return nil, auth.ErrTokenNotFound
		}
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to get magic link token")
		}
		return nil, fmt.Errorf("failed to get magic link token: %w", err)
	}
	return &t, nil
}

// MarkUsed performs the single used=false to used=true transition
func (r *MagicLinkRepository) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE magic_link_tokens SET used = true WHERE id = $1 AND used = false`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"token_id": id}).WithError(err).Error("db: failed to mark magic link token used")
		}
		return false, fmt.Errorf("failed to mark magic link token used: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"token_id": id}).WithError(err).Error("db: failed to get rows affected on mark used")
		}
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"token_id": id}).Debug("db: magic link token already consumed")
	}
	return rowsAffected == 1, nil
}
