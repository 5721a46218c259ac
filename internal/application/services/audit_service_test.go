package services

import (
	"context"
	"errors"
	"testing"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord_PersistsEvent(t *testing.T) {
	var stored *audit.AuthEvent
	repo := &mocks.AuditRepositoryMock{CreateFn: func(ctx context.Context, ev *audit.AuthEvent) error {
		stored = ev
		return nil
	}}
	logger, _ := nullLogger()
	clock := newFakeClock()
	svc := NewAuditService(repo, logger).(*AuditService)
	svc.now = clock.Now

	id := uuid.New()
	err := svc.Record(context.Background(), &audit.RecordAuthEventRequest{
		ContributorID: &id,
		Email:         "cook@example.com",
		Action:        audit.ActionLogin,
		IPAddress:     "203.0.113.1",
		UserAgent:     "test",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "login", stored.Action)
	assert.Equal(t, &id, stored.ContributorID)
	assert.Equal(t, clock.Now(), stored.Timestamp)
}

func TestAuditRecord_RejectsUnknownAction(t *testing.T) {
	repo := &mocks.AuditRepositoryMock{CreateFn: func(ctx context.Context, ev *audit.AuthEvent) error {
		t.Fatal("should not persist unknown actions")
		return nil
	}}
	logger, _ := nullLogger()
	err := NewAuditService(repo, logger).Record(context.Background(), &audit.RecordAuthEventRequest{Action: "delete"})
	require.Error(t, err)
}

func TestAuditRecord_PropagatesStoreError(t *testing.T) {
	repo := &mocks.AuditRepositoryMock{CreateFn: func(ctx context.Context, ev *audit.AuthEvent) error {
		return errors.New("insert failed")
	}}
	logger, _ := nullLogger()
	err := NewAuditService(repo, logger).Record(context.Background(), &audit.RecordAuthEventRequest{Action: audit.ActionLogout})
	require.Error(t, err)
}

func TestListEvents_ClampsPaging(t *testing.T) {
	var seen *audit.AuthEventFilter
	repo := &mocks.AuditRepositoryMock{
		ListFn: func(ctx context.Context, f *audit.AuthEventFilter) ([]*audit.AuthEvent, error) {
			seen = f
			return []*audit.AuthEvent{{Action: "login"}}, nil
		},
		CountFn: func(ctx context.Context, f *audit.AuthEventFilter) (int, error) { return 7, nil },
	}
	logger, _ := nullLogger()
	svc := NewAuditService(repo, logger)

	events, total, err := svc.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 7, total)
	assert.Equal(t, defaultEventPageSize, seen.Limit)

	_, _, err = svc.ListEvents(context.Background(), &audit.AuthEventFilter{Limit: 10_000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, maxEventPageSize, seen.Limit)
	assert.Equal(t, 0, seen.Offset)
}
