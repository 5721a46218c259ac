package services

import (
	"context"
	"testing"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_CreatesOnFirstSight(t *testing.T) {
	store := mocks.NewMemoryContributorStore()
	logger, _ := nullLogger()
	clock := newFakeClock()
	svc := NewIdentityService(store, logger)
	svc.now = clock.Now

	c, err := svc.Resolve(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "new@example.com", c.Email)
	assert.Nil(t, c.SessionToken)
	assert.Nil(t, c.DisplayName)
	assert.Equal(t, clock.Now(), c.CreatedAt)
	require.NotNil(t, c.LastActive)
	assert.Equal(t, clock.Now(), *c.LastActive)

	again, err := svc.Resolve(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, 1, store.Count())
}

func TestResolve_IsCaseSensitive(t *testing.T) {
	store := mocks.NewMemoryContributorStore()
	logger, _ := nullLogger()
	svc := NewIdentityService(store, logger)

	a, err := svc.Resolve(context.Background(), "cook@example.com")
	require.NoError(t, err)
	b, err := svc.Resolve(context.Background(), "Cook@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Count())
}

func TestResolve_ConcurrentInsertReturnsWinner(t *testing.T) {
	store := mocks.NewMemoryContributorStore()
	winner := &contributor.Contributor{ID: uuid.New(), Email: "race@example.com", CreatedAt: time.Now()}
	store.BeforeCreate = func(c *contributor.Contributor) {
		store.BeforeCreate = nil
		store.Put(winner)
	}
	logger, _ := nullLogger()

	c, err := NewIdentityService(store, logger).Resolve(context.Background(), "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, c.ID)
	assert.Equal(t, 1, store.Count())
}

func TestResolve_StoreFailures(t *testing.T) {
	logger, _ := nullLogger()

	lookupFails := &mocks.ContributorRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*contributor.Contributor, error) {
		return nil, mocks.ErrStoreDown
	}}
	_, err := NewIdentityService(lookupFails, logger).Resolve(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, auth.ErrPersistence)

	insertFails := &mocks.ContributorRepositoryMock{CreateFn: func(ctx context.Context, c *contributor.Contributor) error {
		return mocks.ErrStoreDown
	}}
	_, err = NewIdentityService(insertFails, logger).Resolve(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, auth.ErrPersistence)
}
