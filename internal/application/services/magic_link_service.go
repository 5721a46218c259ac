package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MagicLinkConfig groups issuance parameters.
type MagicLinkConfig struct {
	BaseURL    string
	TTL        time.Duration
	RateLimit  int
	RateWindow time.Duration
}

type MagicLinkService struct {
	repo   ports.MagicLinkRepository
	sender ports.MagicLinkSender
	cfg    MagicLinkConfig
	logger *logrus.Logger
	now    func() time.Time
}

func NewMagicLinkService(repo ports.MagicLinkRepository, sender ports.MagicLinkSender, cfg *MagicLinkConfig, logger *logrus.Logger) *MagicLinkService {
	c := MagicLinkConfig{TTL: 15 * time.Minute, RateLimit: 5, RateWindow: time.Hour}
	if cfg != nil {
		c.BaseURL = cfg.BaseURL
		if cfg.TTL > 0 {
			c.TTL = cfg.TTL
		}
		if cfg.RateLimit > 0 {
			c.RateLimit = cfg.RateLimit
		}
		if cfg.RateWindow > 0 {
			c.RateWindow = cfg.RateWindow
		}
	}
	return &MagicLinkService{repo: repo, sender: sender, cfg: c, logger: logger, now: time.Now}
}

// RequestLink validates email, enforces the per-email sliding window, persists a fresh
// token and hands the sign-in link to the sender.
func (s *MagicLinkService) RequestLink(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return auth.ErrInvalidEmail
	}

	now := s.now()
	recent, err := s.repo.CountCreatedSince(ctx, email, now.Add(-s.cfg.RateWindow))
	if err != nil {
		return fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if recent >= s.cfg.RateLimit {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email, "recent": recent}).Info("magic link request rate limited")
		}
		return auth.ErrRateLimited
	}

	value, err := utils.GenerateToken(utils.TokenBytes)
	if err != nil {
		return err
	}
	token := &auth.MagicLinkToken{
		ID:        uuid.New(),
		Email:     email,
		Token:     value,
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}

	if err := s.sender.SendMagicLink(ctx, email, s.link(value)); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("magic link delivery failed")
		}
		return fmt.Errorf("%w: %w", auth.ErrDelivery, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": email, "token_id": token.ID}).Info("magic link issued")
	}
	return nil
}

func (s *MagicLinkService) link(token string) string {
	return s.cfg.BaseURL + "/auth/verify?token=" + token
}

// Verify consumes token exactly once and returns the email it was issued for.
// Expired tokens are reported but left unused.
func (s *MagicLinkService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", auth.ErrTokenNotFound
	}
	t, err := s.repo.GetUnused(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return "", auth.ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if t.IsExpired(s.now()) {
		return "", auth.ErrTokenExpired
	}

	won, err := s.repo.MarkUsed(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", auth.ErrPersistence, err)
	}
	if !won {
		return "", auth.ErrTokenNotFound
	}
	return t.Email, nil
}

var _ ports.MagicLinkService = (*MagicLinkService)(nil)
