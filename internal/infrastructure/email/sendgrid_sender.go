package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const magicLinkSubject = "Your recipe submission link"

// SenderConfig holds SendGrid delivery settings
type SenderConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	LinkTTL        time.Duration
}

// mailClient is the subset of *sendgrid.Client the sender uses.
type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers magic links through SendGrid.
type SendGridSender struct {
	config   *SenderConfig
	logger   *logrus.Logger
	client   mailClient
	template *template.Template
}

// MagicLinkEmailData holds data for the magic link template
type MagicLinkEmailData struct {
	CompanyName  string
	Link         string
	ValidMinutes int
}

// NewSendGridSender creates a sender backed by the SendGrid v3 API.
func NewSendGridSender(config *SenderConfig, logger *logrus.Logger) (ports.MagicLinkSender, error) {
	return newSendGridSender(config, logger, sendgrid.NewSendClient(config.SendGridAPIKey))
}

func newSendGridSender(config *SenderConfig, logger *logrus.Logger, client mailClient) (*SendGridSender, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/magic_link.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	return &SendGridSender{config: config, logger: logger, client: client, template: tmpl}, nil
}

func (s *SendGridSender) render(link string) (*ports.EmailTemplate, error) {
	data := MagicLinkEmailData{
		CompanyName:  s.config.CompanyName,
		Link:         link,
		ValidMinutes: int(s.config.LinkTTL / time.Minute),
	}
	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template magic_link: %w", err)
	}
	return &ports.EmailTemplate{Subject: magicLinkSubject, Body: buf.String(), IsHTML: true}, nil
}

// SendMagicLink renders and sends the sign-in email
func (s *SendGridSender) SendMagicLink(ctx context.Context, to, link string) error {
	content, err := s.render(link)
	if err != nil {
		return err
	}

	from := mail.NewEmail(s.config.FromName, s.config.FromEmail)
	message := mail.NewSingleEmail(from, content.Subject, mail.NewEmail("", to), "", content.Body)

	response, err := s.client.Send(message)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"to": to}).WithError(err).Error("Failed to send magic link email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		s.logger.WithFields(logrus.Fields{"to": to, "status_code": response.StatusCode}).Error("SendGrid rejected magic link email")
		return fmt.Errorf("failed to send email: sendgrid status %d", response.StatusCode)
	}

	s.logger.WithFields(logrus.Fields{
		"to":          to,
		"status_code": response.StatusCode,
	}).Info("Magic link email sent")
	return nil
}
