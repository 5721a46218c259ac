package services

import (
	"context"
	"fmt"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type AuthGateService struct {
	sessions ports.SessionService
	admins   ports.AdminRepository
	logger   *logrus.Logger
}

func NewAuthGateService(sessions ports.SessionService, admins ports.AdminRepository, logger *logrus.Logger) ports.AuthGateService {
	return &AuthGateService{sessions: sessions, admins: admins, logger: logger}
}

func (s *AuthGateService) RequireSession(ctx context.Context, credential string) (*contributor.Contributor, error) {
	c, err := s.sessions.Current(ctx, credential)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, auth.ErrUnauthorized
	}
	return c, nil
}

func (s *AuthGateService) RequireAdmin(ctx context.Context, credential string) (*contributor.Contributor, error) {
	c, err := s.RequireSession(ctx, credential)
	if err != nil {
		return nil, err
	}
	ok, err := s.IsAdmin(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"contributor_id": c.ID}).Warn("admin access denied")
		}
		return nil, auth.ErrForbidden
	}
	return c, nil
}

// IsAdmin checks the allow-list by exact email.
func (s *AuthGateService) IsAdmin(ctx context.Context, email string) (bool, error) {
	ok, err := s.admins.IsAdmin(ctx, email)
	if err != nil {
		return false, fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	return ok, nil
}
