package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const pqUniqueViolation = "23505"

const contributorColumns = `id, email, display_name, session_token, last_active, created_at`

// ContributorRepository implements the contributor repository interface
type ContributorRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewContributorRepository creates a new contributor repository
func NewContributorRepository(database *db.Database, logger *logrus.Logger) ports.ContributorRepository {
	return &ContributorRepository{
		db:     database,
		logger: logger,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// Create creates a new contributor
func (r *ContributorRepository) Create(ctx context.Context, c *contributor.Contributor) error {
	query := `
		INSERT INTO contributors (id, email, display_name, session_token, last_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query,
		c.ID, c.Email, c.DisplayName, c.SessionToken, c.LastActive, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": c.Email}).Debug("db: contributor email already exists")
			}
			return contributor.ErrDuplicateEmail
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"contributor_id": c.ID, "email": c.Email}).WithError(err).Error("db: failed to create contributor")
		}
		return fmt.Errorf("failed to create contributor: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"contributor_id": c.ID, "email": c.Email}).Info("db: contributor created")
	}
	return nil
}

func (r *ContributorRepository) getOne(ctx context.Context, where string, arg any, fields logrus.Fields) (*contributor.Contributor, error) {
	var c contributor.Contributor
	query := `SELECT ` + contributorColumns + ` FROM contributors WHERE ` + where

	err := r.db.DB.GetContext(ctx, &c, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.logger != nil {
				r.logger.WithFields(fields).Debug("db: contributor not found")
			}
			return nil, contributor.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(fields).WithError(err).Error("db: failed to get contributor")
		}
		return nil, fmt.Errorf("failed to get contributor: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a contributor by ID
func (r *ContributorRepository) GetByID(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error) {
	return r.getOne(ctx, "id = $1", id, logrus.Fields{"contributor_id": id})
}

// GetByEmail retrieves a contributor by exact email
func (r *ContributorRepository) GetByEmail(ctx context.Context, email string) (*contributor.Contributor, error) {
	return r.getOne(ctx, "email = $1", email, logrus.Fields{"email": email})
}

// GetBySessionToken retrieves the contributor holding the given session credential
func (r *ContributorRepository) GetBySessionToken(ctx context.Context, token string) (*contributor.Contributor, error) {
	return r.getOne(ctx, "session_token = $1", token, logrus.Fields{"lookup": "session_token"})
}

func (r *ContributorRepository) execOne(ctx context.Context, op string, id uuid.UUID, query string, args ...any) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"contributor_id": id}).WithError(err).Error("db: failed to " + op)
		}
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"contributor_id": id}).WithError(err).Error("db: failed to get rows affected on " + op)
		}
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// SetSessionToken overwrites the session credential and last_active in one statement
func (r *ContributorRepository) SetSessionToken(ctx context.Context, id uuid.UUID, token string, at time.Time) error {
	n, err := r.execOne(ctx, "set session token", id,
		`UPDATE contributors SET session_token = $2, last_active = $3 WHERE id = $1`, id, token, at)
	if err != nil {
		return err
	}
	if n == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"contributor_id": id}).Debug("db: set session token affected 0 rows - contributor not found")
		}
		return contributor.ErrNotFound
	}
	return nil
}

// TouchLastActive records activity for the contributor
func (r *ContributorRepository) TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.execOne(ctx, "touch last active", id,
		`UPDATE contributors SET last_active = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if n == 0 {
		return contributor.ErrNotFound
	}
	return nil
}

// ClearSessionToken nulls the credential if it still matches token
func (r *ContributorRepository) ClearSessionToken(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	n, err := r.execOne(ctx, "clear session token", id,
		`UPDATE contributors SET session_token = NULL WHERE id = $1 AND session_token = $2`, id, token)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
