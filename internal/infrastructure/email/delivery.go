package email

import (
	"context"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// deliveryPolicy decides what a failed send means for the caller.
type deliveryPolicy struct {
	next   ports.MagicLinkSender
	mode   auth.DeliveryMode
	logger *logrus.Logger
}

// NewDeliveryPolicy wraps next. In strict mode send failures are returned. In permissive
// mode they are logged together with the link and swallowed.
func NewDeliveryPolicy(next ports.MagicLinkSender, mode auth.DeliveryMode, logger *logrus.Logger) ports.MagicLinkSender {
	return &deliveryPolicy{next: next, mode: mode, logger: logger}
}

func (p *deliveryPolicy) SendMagicLink(ctx context.Context, to, link string) error {
	err := p.next.SendMagicLink(ctx, to, link)
	if err == nil || p.mode == auth.DeliveryStrict {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"to":   to,
		"link": link,
	}).WithError(err).Warn("magic link delivery failed; link logged for manual delivery")
	return nil
}
