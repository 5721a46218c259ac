package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://cookbook.example.org"

func newMagicLinkFixture() (*MagicLinkService, *mocks.MemoryMagicLinkStore, *mocks.MagicLinkSenderMock, *fakeClock) {
	store := mocks.NewMemoryMagicLinkStore()
	sender := &mocks.MagicLinkSenderMock{}
	clock := newFakeClock()
	logger, _ := nullLogger()
	svc := NewMagicLinkService(store, sender, &MagicLinkConfig{BaseURL: testBaseURL}, logger)
	svc.now = clock.Now
	return svc, store, sender, clock
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	prefix := testBaseURL + "/auth/verify?token="
	require.True(t, strings.HasPrefix(link, prefix), "unexpected link %q", link)
	return strings.TrimPrefix(link, prefix)
}

func TestRequestLink_IssuesTokenAndSendsLink(t *testing.T) {
	svc, store, sender, clock := newMagicLinkFixture()

	require.NoError(t, svc.RequestLink(context.Background(), "cook@example.com"))

	tokens := store.All()
	require.Len(t, tokens, 1)
	tok := tokens[0]
	assert.Equal(t, "cook@example.com", tok.Email)
	assert.Len(t, tok.Token, 64)
	assert.False(t, tok.Used)
	assert.Equal(t, clock.Now(), tok.CreatedAt)
	assert.Equal(t, clock.Now().Add(15*time.Minute), tok.ExpiresAt)

	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "cook@example.com", sender.Sent[0].Email)
	assert.Equal(t, tok.Token, tokenFromLink(t, sender.Sent[0].Link))
}

func TestRequestLink_TokensAreDistinct(t *testing.T) {
	svc, store, _, _ := newMagicLinkFixture()
	require.NoError(t, svc.RequestLink(context.Background(), "cook@example.com"))
	require.NoError(t, svc.RequestLink(context.Background(), "cook@example.com"))

	tokens := store.All()
	require.Len(t, tokens, 2)
	assert.NotEqual(t, tokens[0].Token, tokens[1].Token)
}

func TestRequestLink_InvalidEmail(t *testing.T) {
	svc, store, sender, _ := newMagicLinkFixture()
	for _, email := range []string{"", "   ", "nope", "a@b", "a b@c.de"} {
		err := svc.RequestLink(context.Background(), email)
		assert.ErrorIs(t, err, auth.ErrInvalidEmail, email)
	}
	assert.Empty(t, store.All())
	assert.Empty(t, sender.Sent)
}

func TestRequestLink_TrimsButKeepsCase(t *testing.T) {
	svc, store, _, _ := newMagicLinkFixture()
	require.NoError(t, svc.RequestLink(context.Background(), "  Cook@Example.com "))
	assert.Equal(t, "Cook@Example.com", store.All()[0].Email)
}

func TestRequestLink_SlidingWindowRateLimit(t *testing.T) {
	svc, store, sender, clock := newMagicLinkFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RequestLink(ctx, "busy@example.com"))
		clock.Advance(time.Minute)
	}
	err := svc.RequestLink(ctx, "busy@example.com")
	assert.ErrorIs(t, err, auth.ErrRateLimited)
	assert.Len(t, store.All(), 5, "rejected requests create no token")
	assert.Len(t, sender.Sent, 5)

	// Other addresses are unaffected, and matching is case-sensitive.
	require.NoError(t, svc.RequestLink(ctx, "other@example.com"))
	require.NoError(t, svc.RequestLink(ctx, "Busy@example.com"))

	// The window includes its lower bound, so the first request stops counting
	// just after the hour.
	clock.Advance(55 * time.Minute)
	assert.ErrorIs(t, svc.RequestLink(ctx, "busy@example.com"), auth.ErrRateLimited)
	clock.Advance(time.Second)
	require.NoError(t, svc.RequestLink(ctx, "busy@example.com"))
	assert.ErrorIs(t, svc.RequestLink(ctx, "busy@example.com"), auth.ErrRateLimited)
}

func TestRequestLink_UsedTokensStillCount(t *testing.T) {
	svc, _, sender, _ := newMagicLinkFixture()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RequestLink(ctx, "cook@example.com"))
		_, err := svc.Verify(ctx, tokenFromLink(t, sender.Sent[i].Link))
		require.NoError(t, err)
	}
	assert.ErrorIs(t, svc.RequestLink(ctx, "cook@example.com"), auth.ErrRateLimited)
}

func TestRequestLink_StoreFailures(t *testing.T) {
	logger, _ := nullLogger()
	sender := &mocks.MagicLinkSenderMock{}

	countFails := &mocks.MagicLinkRepositoryMock{CountCreatedSinceFn: func(ctx context.Context, email string, since time.Time) (int, error) {
		return 0, mocks.ErrStoreDown
	}}
	err := NewMagicLinkService(countFails, sender, nil, logger).RequestLink(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, auth.ErrPersistence)

	createFails := &mocks.MagicLinkRepositoryMock{CreateFn: func(ctx context.Context, tok *auth.MagicLinkToken) error {
		return mocks.ErrStoreDown
	}}
	err = NewMagicLinkService(createFails, sender, nil, logger).RequestLink(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, auth.ErrPersistence)
	assert.Empty(t, sender.Sent, "nothing is sent when the token was not stored")
}

func TestRequestLink_DeliveryFailure(t *testing.T) {
	svc, store, sender, _ := newMagicLinkFixture()
	sender.SendMagicLinkFn = func(ctx context.Context, email, link string) error {
		return errors.New("provider down")
	}

	err := svc.RequestLink(context.Background(), "cook@example.com")
	assert.ErrorIs(t, err, auth.ErrDelivery)
	assert.Len(t, store.All(), 1, "the stored token is not rolled back")
}

func TestVerify_ConsumesOnce(t *testing.T) {
	svc, store, sender, _ := newMagicLinkFixture()
	ctx := context.Background()
	require.NoError(t, svc.RequestLink(ctx, "cook@example.com"))
	token := tokenFromLink(t, sender.Sent[0].Link)

	email, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", email)
	assert.True(t, store.All()[0].Used)

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestVerify_UnknownAndEmptyToken(t *testing.T) {
	svc, _, _, _ := newMagicLinkFixture()
	_, err := svc.Verify(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	_, err = svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	svc, store, sender, clock := newMagicLinkFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestLink(ctx, "edge@example.com"))
	clock.Advance(15 * time.Minute)
	email, err := svc.Verify(ctx, tokenFromLink(t, sender.Sent[0].Link))
	require.NoError(t, err, "a token is valid at its exact expiry instant")
	assert.Equal(t, "edge@example.com", email)

	require.NoError(t, svc.RequestLink(ctx, "late@example.com"))
	clock.Advance(15*time.Minute + time.Second)
	_, err = svc.Verify(ctx, tokenFromLink(t, sender.Sent[1].Link))
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	for _, tok := range store.All() {
		if tok.Email == "late@example.com" {
			assert.False(t, tok.Used, "expired tokens are left unused")
		}
	}
}

func TestVerify_LostRaceIsNotFound(t *testing.T) {
	logger, _ := nullLogger()
	id := uuid.New()
	repo := &mocks.MagicLinkRepositoryMock{
		GetUnusedFn: func(ctx context.Context, token string) (*auth.MagicLinkToken, error) {
			return &auth.MagicLinkToken{ID: id, Email: "a@b.co", Token: token, ExpiresAt: time.Now().Add(time.Minute)}, nil
		},
		MarkUsedFn: func(ctx context.Context, got uuid.UUID) (bool, error) {
			assert.Equal(t, id, got)
			return false, nil
		},
	}
	_, err := NewMagicLinkService(repo, &mocks.MagicLinkSenderMock{}, nil, logger).Verify(context.Background(), "t")
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestVerify_StoreFailure(t *testing.T) {
	logger, _ := nullLogger()
	repo := &mocks.MagicLinkRepositoryMock{GetUnusedFn: func(ctx context.Context, token string) (*auth.MagicLinkToken, error) {
		return nil, mocks.ErrStoreDown
	}}
	_, err := NewMagicLinkService(repo, &mocks.MagicLinkSenderMock{}, nil, logger).Verify(context.Background(), "t")
	assert.ErrorIs(t, err, auth.ErrPersistence)
	assert.NotErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestVerify_ConcurrentCallsHaveOneWinner(t *testing.T) {
	svc, _, sender, _ := newMagicLinkFixture()
	ctx := context.Background()
	require.NoError(t, svc.RequestLink(ctx, "race@example.com"))
	token := tokenFromLink(t, sender.Sent[0].Link)

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(ctx, token)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, auth.ErrTokenNotFound):
				atomic.AddInt32(&losses, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(15), losses)
}
