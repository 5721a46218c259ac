package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail  = errors.New("valid email is required")
	ErrRateLimited   = errors.New("too many magic link requests")
	ErrTokenNotFound = errors.New("magic link token not found or already used")
	ErrTokenExpired  = errors.New("magic link token expired")
	ErrUnauthorized  = errors.New("authentication required")
	ErrForbidden     = errors.New("admin access required")
	ErrPersistence   = errors.New("persistence failure")
	ErrDelivery      = errors.New("magic link delivery failed")
)

// MagicLinkToken is a single-use sign-in credential bound to an email address.
type MagicLinkToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the token is past its expiry at now.
// A token whose expiry equals now is still valid.
func (t *MagicLinkToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// MagicLinkRequest is the body of a sign-in link request.
type MagicLinkRequest struct {
	Email string `json:"email"`
}

// DeliveryMode controls whether a failed email send fails the link request.
type DeliveryMode string

const (
	DeliveryStrict     DeliveryMode = "strict"
	DeliveryPermissive DeliveryMode = "permissive"
)

// ParseDeliveryMode maps a config string to a DeliveryMode, defaulting to strict.
func ParseDeliveryMode(s string) DeliveryMode {
	if DeliveryMode(s) == DeliveryPermissive {
		return DeliveryPermissive
	}
	return DeliveryStrict
}

// VerifyFailureReason is the reason query parameter on the verify-error page.
type VerifyFailureReason string

const (
	ReasonNoToken VerifyFailureReason = "no-token"
	ReasonExpired VerifyFailureReason = "expired"
)
