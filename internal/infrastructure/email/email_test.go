package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/mocks"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailClient struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeMailClient) Send(m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func testConfig() *SenderConfig {
	return &SenderConfig{
		FromEmail:   "noreply@cookbook.example",
		FromName:    "Community Cookbook",
		CompanyName: "The Cookbook Team",
		LinkTTL:     15 * time.Minute,
	}
}

func TestSendGridSender_SendsRenderedLink(t *testing.T) {
	logger, _ := test.NewNullLogger()
	client := &fakeMailClient{status: 202}
	s, err := newSendGridSender(testConfig(), logger, client)
	require.NoError(t, err)

	link := "https://cookbook.example/auth/verify?token=abc123"
	require.NoError(t, s.SendMagicLink(context.Background(), "cook@example.com", link))

	require.Len(t, client.sent, 1)
	msg := client.sent[0]
	assert.Equal(t, magicLinkSubject, msg.Subject)
	assert.Equal(t, "noreply@cookbook.example", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	assert.Equal(t, "cook@example.com", msg.Personalizations[0].To[0].Address)

	var html string
	for _, c := range msg.Content {
		if c.Type == "text/html" {
			html = c.Value
		}
	}
	assert.Contains(t, html, link)
	assert.Contains(t, html, "next 15 minutes")
	assert.Contains(t, html, "The Cookbook Team")
}

func TestSendGridSender_RejectedStatusIsError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s, err := newSendGridSender(testConfig(), logger, &fakeMailClient{status: 401})
	require.NoError(t, err)

	err = s.SendMagicLink(context.Background(), "cook@example.com", "https://x/auth/verify?token=t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridSender_TransportError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s, err := newSendGridSender(testConfig(), logger, &fakeMailClient{err: errors.New("dial tcp: timeout")})
	require.NoError(t, err)

	require.Error(t, s.SendMagicLink(context.Background(), "cook@example.com", "https://x"))
}

func TestDeliveryPolicy(t *testing.T) {
	failing := &mocks.MagicLinkSenderMock{SendMagicLinkFn: func(ctx context.Context, email, link string) error {
		return errors.New("provider down")
	}}

	t.Run("strict propagates", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		p := NewDeliveryPolicy(failing, auth.DeliveryStrict, logger)
		assert.Error(t, p.SendMagicLink(context.Background(), "a@b.co", "https://x/auth/verify?token=t"))
	})

	t.Run("permissive logs the link and succeeds", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		p := NewDeliveryPolicy(failing, auth.DeliveryPermissive, logger)
		require.NoError(t, p.SendMagicLink(context.Background(), "a@b.co", "https://x/auth/verify?token=t"))

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "https://x/auth/verify?token=t", entry.Data["link"])
	})

	t.Run("success passes through in both modes", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		ok := &mocks.MagicLinkSenderMock{}
		for _, mode := range []auth.DeliveryMode{auth.DeliveryStrict, auth.DeliveryPermissive} {
			require.NoError(t, NewDeliveryPolicy(ok, mode, logger).SendMagicLink(context.Background(), "a@b.co", "l"))
		}
		assert.Empty(t, hook.AllEntries())
		assert.Len(t, ok.Sent, 2)
	})
}

func TestLogSender_ReportsNoProvider(t *testing.T) {
	logger, hook := test.NewNullLogger()
	err := NewLogSender(logger).SendMagicLink(context.Background(), "a@b.co", "https://x")
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.True(t, strings.Contains(hook.LastEntry().Message, "not configured"))
}
