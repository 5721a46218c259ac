package ports

import (
	"context"
)

// MagicLinkSender delivers a sign-in link to an email address.
type MagicLinkSender interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// EmailTemplate represents rendered email content
type EmailTemplate struct {
	Subject string
	Body    string
	IsHTML  bool
}
