package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/auth"
	"github.com/avatarctic/recipe-submissions/internal/core/domain/contributor"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/google/uuid"
)

// MagicLinkRepositoryMock is a lightweight mock for MagicLinkRepository
type MagicLinkRepositoryMock struct {
	CreateFn            func(ctx context.Context, t *auth.MagicLinkToken) error
	CountCreatedSinceFn func(ctx context.Context, email string, since time.Time) (int, error)
	GetUnusedFn         func(ctx context.Context, token string) (*auth.MagicLinkToken, error)
	MarkUsedFn          func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MagicLinkRepositoryMock) Create(ctx context.Context, t *auth.MagicLinkToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *MagicLinkRepositoryMock) CountCreatedSince(ctx context.Context, email string, since time.Time) (int, error) {
	if m.CountCreatedSinceFn != nil {
		return m.CountCreatedSinceFn(ctx, email, since)
	}
	return 0, nil
}
func (m *MagicLinkRepositoryMock) GetUnused(ctx context.Context, token string) (*auth.MagicLinkToken, error) {
	if m.GetUnusedFn != nil {
		return m.GetUnusedFn(ctx, token)
	}
	return nil, auth.ErrTokenNotFound
}
func (m *MagicLinkRepositoryMock) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkUsedFn != nil {
		return m.MarkUsedFn(ctx, id)
	}
	return true, nil
}

// ContributorRepositoryMock is a lightweight mock for ContributorRepository
type ContributorRepositoryMock struct {
	CreateFn            func(ctx context.Context, c *contributor.Contributor) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error)
	GetByEmailFn        func(ctx context.Context, email string) (*contributor.Contributor, error)
	GetBySessionTokenFn func(ctx context.Context, token string) (*contributor.Contributor, error)
	SetSessionTokenFn   func(ctx context.Context, id uuid.UUID, token string, at time.Time) error
	TouchLastActiveFn   func(ctx context.Context, id uuid.UUID, at time.Time) error
	ClearSessionTokenFn func(ctx context.Context, id uuid.UUID, token string) (bool, error)
}

func (m *ContributorRepositoryMock) Create(ctx context.Context, c *contributor.Contributor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}
func (m *ContributorRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, contributor.ErrNotFound
}
func (m *ContributorRepositoryMock) GetByEmail(ctx context.Context, email string) (*contributor.Contributor, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, contributor.ErrNotFound
}
func (m *ContributorRepositoryMock) GetBySessionToken(ctx context.Context, token string) (*contributor.Contributor, error) {
	if m.GetBySessionTokenFn != nil {
		return m.GetBySessionTokenFn(ctx, token)
	}
	return nil, contributor.ErrNotFound
}
func (m *ContributorRepositoryMock) SetSessionToken(ctx context.Context, id uuid.UUID, token string, at time.Time) error {
	if m.SetSessionTokenFn != nil {
		return m.SetSessionTokenFn(ctx, id, token, at)
	}
	return nil
}
func (m *ContributorRepositoryMock) TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.TouchLastActiveFn != nil {
		return m.TouchLastActiveFn(ctx, id, at)
	}
	return nil
}
func (m *ContributorRepositoryMock) ClearSessionToken(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	if m.ClearSessionTokenFn != nil {
		return m.ClearSessionTokenFn(ctx, id, token)
	}
	return true, nil
}

// AdminRepositoryMock is a lightweight mock for AdminRepository
type AdminRepositoryMock struct {
	IsAdminFn func(ctx context.Context, email string) (bool, error)
}

func (m *AdminRepositoryMock) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.IsAdminFn != nil {
		return m.IsAdminFn(ctx, email)
	}
	return false, nil
}

// MagicLinkSenderMock records delivered links
type MagicLinkSenderMock struct {
	SendMagicLinkFn func(ctx context.Context, email, link string) error
	Sent            []SentLink
}

type SentLink struct {
	Email string
	Link  string
}

func (m *MagicLinkSenderMock) SendMagicLink(ctx context.Context, email, link string) error {
	m.Sent = append(m.Sent, SentLink{Email: email, Link: link})
	if m.SendMagicLinkFn != nil {
		return m.SendMagicLinkFn(ctx, email, link)
	}
	return nil
}

// AuditRepositoryMock is a lightweight mock for AuditRepository
type AuditRepositoryMock struct {
	CreateFn func(ctx context.Context, ev *audit.AuthEvent) error
	ListFn   func(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, error)
	CountFn  func(ctx context.Context, filter *audit.AuthEventFilter) (int, error)
}

func (m *AuditRepositoryMock) Create(ctx context.Context, ev *audit.AuthEvent) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ev)
	}
	return nil
}
func (m *AuditRepositoryMock) List(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*audit.AuthEvent{}, nil
}
func (m *AuditRepositoryMock) Count(ctx context.Context, filter *audit.AuthEventFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, nil
}

// AuditServiceMock is a lightweight mock for AuditService
type AuditServiceMock struct {
	RecordFn     func(ctx context.Context, req *audit.RecordAuthEventRequest) error
	ListEventsFn func(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, int, error)
	Recorded     []*audit.RecordAuthEventRequest
}

func (m *AuditServiceMock) Record(ctx context.Context, req *audit.RecordAuthEventRequest) error {
	m.Recorded = append(m.Recorded, req)
	if m.RecordFn != nil {
		return m.RecordFn(ctx, req)
	}
	return nil
}
func (m *AuditServiceMock) ListEvents(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, int, error) {
	if m.ListEventsFn != nil {
		return m.ListEventsFn(ctx, filter)
	}
	return []*audit.AuthEvent{}, 0, nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, key, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, key string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return true, 0, 0, time.Time{}, nil
}

// MagicLinkServiceMock is a lightweight mock for MagicLinkService
type MagicLinkServiceMock struct {
	RequestLinkFn func(ctx context.Context, email string) error
	VerifyFn      func(ctx context.Context, token string) (string, error)
}

func (m *MagicLinkServiceMock) RequestLink(ctx context.Context, email string) error {
	if m.RequestLinkFn != nil {
		return m.RequestLinkFn(ctx, email)
	}
	return nil
}
func (m *MagicLinkServiceMock) Verify(ctx context.Context, token string) (string, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return "", auth.ErrTokenNotFound
}

// IdentityServiceMock is a lightweight mock for IdentityService
type IdentityServiceMock struct {
	ResolveFn func(ctx context.Context, email string) (*contributor.Contributor, error)
}

func (m *IdentityServiceMock) Resolve(ctx context.Context, email string) (*contributor.Contributor, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, email)
	}
	return &contributor.Contributor{ID: uuid.New(), Email: email}, nil
}

// SessionServiceMock is a lightweight mock for SessionService
type SessionServiceMock struct {
	OpenFn    func(ctx context.Context, contributorID uuid.UUID) (string, error)
	CurrentFn func(ctx context.Context, credential string) (*contributor.Contributor, error)
	CloseFn   func(ctx context.Context, credential string) (*contributor.Contributor, error)
}

func (m *SessionServiceMock) Open(ctx context.Context, contributorID uuid.UUID) (string, error) {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, contributorID)
	}
	return "session-credential", nil
}
func (m *SessionServiceMock) Current(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, credential)
	}
	return nil, nil
}
func (m *SessionServiceMock) Close(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if m.CloseFn != nil {
		return m.CloseFn(ctx, credential)
	}
	return nil, nil
}

// AuthGateServiceMock is a lightweight mock for AuthGateService
type AuthGateServiceMock struct {
	RequireSessionFn func(ctx context.Context, credential string) (*contributor.Contributor, error)
	RequireAdminFn   func(ctx context.Context, credential string) (*contributor.Contributor, error)
	IsAdminFn        func(ctx context.Context, email string) (bool, error)
}

func (m *AuthGateServiceMock) RequireSession(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if m.RequireSessionFn != nil {
		return m.RequireSessionFn(ctx, credential)
	}
	return nil, auth.ErrUnauthorized
}
func (m *AuthGateServiceMock) RequireAdmin(ctx context.Context, credential string) (*contributor.Contributor, error) {
	if m.RequireAdminFn != nil {
		return m.RequireAdminFn(ctx, credential)
	}
	return nil, auth.ErrUnauthorized
}
func (m *AuthGateServiceMock) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.IsAdminFn != nil {
		return m.IsAdminFn(ctx, email)
	}
	return false, nil
}

// HealthCheckerMock is a named probe with a fixed result
type HealthCheckerMock struct {
	NameValue string
	Err       error
}

func (m *HealthCheckerMock) Name() string                    { return m.NameValue }
func (m *HealthCheckerMock) Check(ctx context.Context) error { return m.Err }

// ErrStoreDown is a canned infrastructure failure for tests.
var ErrStoreDown = fmt.Errorf("connection refused")

var (
	_ ports.MagicLinkRepository   = (*MagicLinkRepositoryMock)(nil)
	_ ports.ContributorRepository = (*ContributorRepositoryMock)(nil)
	_ ports.AdminRepository       = (*AdminRepositoryMock)(nil)
	_ ports.MagicLinkSender       = (*MagicLinkSenderMock)(nil)
	_ ports.AuditRepository       = (*AuditRepositoryMock)(nil)
	_ ports.AuditService          = (*AuditServiceMock)(nil)
	_ ports.RateLimitRepository   = (*RateLimitRepositoryMock)(nil)
	_ ports.RateLimiterService    = (*RateLimiterServiceMock)(nil)
	_ ports.MagicLinkService      = (*MagicLinkServiceMock)(nil)
	_ ports.IdentityService       = (*IdentityServiceMock)(nil)
	_ ports.SessionService        = (*SessionServiceMock)(nil)
	_ ports.AuthGateService       = (*AuthGateServiceMock)(nil)
	_ ports.HealthChecker         = (*HealthCheckerMock)(nil)
)
