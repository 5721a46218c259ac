package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SessionService struct {
	repo   ports.ContributorRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewSessionService(repo ports.ContributorRepository, logger *logrus.Logger) *SessionService {
	return &SessionService{repo: repo, logger: logger, now: time.Now}
}

// Open issues a new credential for the contributor, replacing any previous one.
func (s *SessionService) Open(ctx context.Context, contributorID uuid.UUID) (string, error) {
	credential, err := utils.GenerateToken(utils.TokenBytes)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetSessionToken(ctx, contributorID, credential, s.now()); err != nil {
		return "", fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"contributor_id": contributorID}).Info("session opened")
	}
	return credential, nil
}

// Current resolves credential to its contributor and records activity.
// A failed activity update is logged and does not fail the lookup.
func (s *SessionService) Current(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if credential == "" {
		return nil, nil
	}
	c, err := s.repo.GetBySessionToken(ctx, credential)
	if err != nil {
		if errors.Is(err, contributor.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}

	now := s.now()
	if err := s.repo.TouchLastActive(ctx, c.ID, now); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"contributor_id": c.ID}).WithError(err).Warn("failed to update contributor last active time")
		}
	} else {
		c.LastActive = &now
	}
	return c, nil
}

// Close revokes credential and returns the contributor it belonged to.
// Closing an unknown or empty credential is a no-op returning nil. Activity is not
// recorded on the way out.
func (s *SessionService) Close(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if credential == "" {
		return nil, nil
	}
	c, err := s.repo.GetBySessionToken(ctx, credential)
	if err != nil {
		if errors.Is(err, contributor.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if _, err := s.repo.ClearSessionToken(ctx, c.ID, credential); err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"contributor_id": c.ID}).Info("session closed")
	}
	return c, nil
}

var _ ports.SessionService = (*SessionService)(nil)
