package email

import (
	"context"
	"errors"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// ErrNoProvider is returned by LogSender so that the delivery policy decides the outcome.
var ErrNoProvider = errors.New("no email provider configured")

// LogSender stands in for a real provider when no API key is configured.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) ports.MagicLinkSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendMagicLink(ctx context.Context, to, link string) error {
	s.logger.WithFields(logrus.Fields{"to": to}).Warn("email provider not configured")
	return ErrNoProvider
}
