package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuthEvent records one step of the sign-in lifecycle.
type AuthEvent struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ContributorID *uuid.UUID `json:"contributor_id" db:"contributor_id"`
	Email         string     `json:"email" db:"email"`
	Action        string     `json:"action" db:"action"`
	Details       any        `json:"details" db:"details"`
	IPAddress     string     `json:"ip_address" db:"ip_address"`
	UserAgent     string     `json:"user_agent" db:"user_agent"`
	Timestamp     time.Time  `json:"timestamp" db:"timestamp"`
}

type AuthAction string

const (
	ActionLinkRequested AuthAction = "link_requested"
	ActionLogin         AuthAction = "login"
	ActionLoginFailed   AuthAction = "login_failed"
	ActionLogout        AuthAction = "logout"
)

// Valid reports whether a is one of the known actions.
func (a AuthAction) Valid() bool {
	switch a {
	case ActionLinkRequested, ActionLogin, ActionLoginFailed, ActionLogout:
		return true
	}
	return false
}

// RecordAuthEventRequest represents the request to record an auth event
type RecordAuthEventRequest struct {
	ContributorID *uuid.UUID `json:"contributor_id,omitempty"`
	Email         string     `json:"email"`
	Action        AuthAction `json:"action"`
	Details       any        `json:"details,omitempty"`
	IPAddress     string     `json:"ip_address"`
	UserAgent     string     `json:"user_agent"`
}

// AuthEventFilter represents filters for querying auth events
type AuthEventFilter struct {
	ContributorID *uuid.UUID  `json:"contributor_id,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Action        *AuthAction `json:"action,omitempty"`
	StartTime     *time.Time  `json:"start_time,omitempty"`
	EndTime       *time.Time  `json:"end_time,omitempty"`
	Limit         int         `json:"limit"`
	Offset        int         `json:"offset"`
}
