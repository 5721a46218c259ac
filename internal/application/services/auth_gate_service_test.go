package services

import (
	"context"
	"testing"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionsWith(c *contributor.Contributor) *mocks.SessionServiceMock {
	return &mocks.SessionServiceMock{CurrentFn: func(ctx context.Context, credential string) (*contributor.Contributor, error) {
		if credential == "valid" {
			return c, nil
		}
		return nil, nil
	}}
}

func TestRequireSession(t *testing.T) {
	logger, _ := nullLogger()
	c := &contributor.Contributor{ID: uuid.New(), Email: "cook@example.com"}
	gate := NewAuthGateService(sessionsWith(c), &mocks.AdminRepositoryMock{}, logger)

	got, err := gate.RequireSession(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = gate.RequireSession(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	_, err = gate.RequireSession(context.Background(), "stale")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestRequireSession_PropagatesStoreFailure(t *testing.T) {
	logger, _ := nullLogger()
	sessions := &mocks.SessionServiceMock{CurrentFn: func(ctx context.Context, credential string) (*contributor.Contributor, error) {
		return nil, auth.ErrPersistence
	}}
	_, err := NewAuthGateService(sessions, &mocks.AdminRepositoryMock{}, logger).RequireSession(context.Background(), "x")
	assert.ErrorIs(t, err, auth.ErrPersistence)
	assert.NotErrorIs(t, err, auth.ErrUnauthorized)
}

func TestRequireAdmin(t *testing.T) {
	logger, _ := nullLogger()
	admin := &contributor.Contributor{ID: uuid.New(), Email: "admin@example.com"}
	cook := &contributor.Contributor{ID: uuid.New(), Email: "cook@example.com"}
	admins := &mocks.AdminRepositoryMock{IsAdminFn: func(ctx context.Context, email string) (bool, error) {
		return email == "admin@example.com", nil
	}}

	got, err := NewAuthGateService(sessionsWith(admin), admins, logger).RequireAdmin(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = NewAuthGateService(sessionsWith(cook), admins, logger).RequireAdmin(context.Background(), "valid")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = NewAuthGateService(sessionsWith(admin), admins, logger).RequireAdmin(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrUnauthorized, "no session is unauthorized, not forbidden")
}

func TestRequireAdmin_AllowListFailure(t *testing.T) {
	logger, _ := nullLogger()
	c := &contributor.Contributor{ID: uuid.New(), Email: "admin@example.com"}
	admins := &mocks.AdminRepositoryMock{IsAdminFn: func(ctx context.Context, email string) (bool, error) {
		return false, mocks.ErrStoreDown
	}}
	_, err := NewAuthGateService(sessionsWith(c), admins, logger).RequireAdmin(context.Background(), "valid")
	assert.ErrorIs(t, err, auth.ErrPersistence)
}
