package domain

import "time"

// AuthState is the position of a session in the authorization flow.
type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateIssued
	StateCodeExchangePending
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateIssued:
		return "state_issued"
	case StateCodeExchangePending:
		return "code_exchange_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the per-caller authorization state. It is owned by the request
// that loaded it from the session store and written back when that request
// completes.
type Session struct {
	ID          string
	State       AuthState
	CSRFState   string
	Token       Token
	UserID      string
	DisplayName string
	UpdatedAt   time.Time
}

// NewSession returns an unauthenticated session with the given ID.
func NewSession(id string) *Session {
	return &Session{ID: id, State: StateUnauthenticated}
}

// Reset clears everything but the session ID.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, State: StateUnauthenticated, UpdatedAt: s.UpdatedAt}
}

// Authenticated reports whether an access token and identity are bound.
func (s *Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Token.AccessToken != "" && s.UserID != ""
}
