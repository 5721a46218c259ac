package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type IdentityService struct {
	repo   ports.ContributorRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewIdentityService(repo ports.ContributorRepository, logger *logrus.Logger) *IdentityService {
	return &IdentityService{repo: repo, logger: logger, now: time.Now}
}

// Resolve returns the contributor with this exact email, creating one on first sight.
func (s *IdentityService) Resolve(ctx context.Context, email string) (*contributor.Contributor, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, contributor.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}

	now := s.now()
	c = &contributor.Contributor{
		ID:         uuid.New(),
		Email:      email,
		LastActive: &now,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if !errors.Is(err, contributor.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
		}
		// Lost a concurrent first sign-in; the row that won is the identity.
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
		}
		return existing, nil
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"contributor_id": c.ID, "email": email}).Info("contributor created")
	}
	return c, nil
}

var _ ports.IdentityService = (*IdentityService)(nil)
