package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const (
	defaultEventPageSize = 50
	maxEventPageSize     = 200
)

type AuditService struct {
	repo   ports.AuditRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuditService(repo ports.AuditRepository, logger *logrus.Logger) ports.AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *AuditService) Record(ctx context.Context, req *audit.RecordAuthEventRequest) error {
	if !req.Action.Valid() {
		return fmt.Errorf("unknown auth event action %q", req.Action)
	}
	ev := &audit.AuthEvent{
		ContributorID: req.ContributorID,
		Email:         req.Email,
		Action:        string(req.Action),
		Details:       req.Details,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
		Timestamp:     s.now(),
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": req.Email, "action": req.Action}).WithError(err).Error("failed to persist auth event")
		}
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": req.Email, "action": req.Action, "contributor_id": req.ContributorID}).Debug("auth event persisted")
	}
	return nil
}

func (s *AuditService) ListEvents(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, int, error) {
	if filter == nil {
		filter = &audit.AuthEventFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultEventPageSize
	}
	if filter.Limit > maxEventPageSize {
		filter.Limit = maxEventPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
