// Package auth implements the authorization state machine that gates the
// import pipeline: CSRF state issuance, authorization code exchange and
// identity binding.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

const stateBytes = 16

// CallbackParams are the query parameters of the authorization redirect.
type CallbackParams struct {
	State string
	Code  string
	Error string
}

// IdentityFetcher returns the remote identity behind an access token.
type IdentityFetcher interface {
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
}

// Machine drives a session through the authorization flow. It holds no
// per-session state; all state lives in the *domain.Session passed to each
// transition.
type Machine struct {
	authenticator ports.Authenticator
	identity      IdentityFetcher
	logger        *log.Logger
	now           func() time.Time
}

// NewMachine creates a state machine using authenticator for the OAuth
// exchange and identity to look up the remote user.
func NewMachine(authenticator ports.Authenticator, identity IdentityFetcher, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.Default()
	}
	return &Machine{
		authenticator: authenticator,
		identity:      identity,
		logger:        logger.With("component", "auth"),
		now:           time.Now,
	}
}

// Begin issues a fresh CSRF state and returns the authorization URL the
// caller must be redirected to. Any previous authorization is discarded.
func (m *Machine) Begin(sess *domain.Session) (string, error) {
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	sess.Reset()
	sess.CSRFState = state
	sess.State = domain.StateIssued

	m.logger.Debug("issued authorization state", "session", sess.ID)
	return m.authenticator.AuthCodeURL(state), nil
}

// Callback handles the authorization redirect. The returned state must match
// the one issued by Begin before anything else is looked at; on success the
// session is Authenticated and bound to the remote identity.
func (m *Machine) Callback(ctx context.Context, sess *domain.Session, params CallbackParams) (domain.Identity, error) {
	if sess.State != domain.StateIssued || !equalState(sess.CSRFState, params.State) {
		m.logger.Warn("authorization state mismatch", "session", sess.ID, "state", sess.State)
		return domain.Identity{}, domain.ErrStateMismatch
	}

	if params.Error != "" {
		m.logger.Warn("authorization denied", "session", sess.ID, "error", params.Error)
		sess.Reset()
		return domain.Identity{}, &domain.RemoteError{Kind: domain.ErrAuthorizationDenied, Detail: params.Error}
	}

	sess.State = domain.StateCodeExchangePending

	token, err := m.authenticator.Exchange(ctx, params.Code)
	if err != nil {
		m.logger.Error("token exchange failed", "session", sess.ID, "err", err)
		sess.Reset()
		return domain.Identity{}, asExchangeError(err)
	}

	identity, err := m.identity.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		m.logger.Error("identity fetch failed", "session", sess.ID, "err", err)
		sess.Reset()
		return domain.Identity{}, &domain.RemoteError{
			Kind:       domain.ErrTokenExchangeFailed,
			StatusCode: domain.StatusCode(err),
			Detail:     "failed to fetch user profile",
		}
	}

	sess.Token = token
	sess.UserID = identity.ID
	sess.DisplayName = identity.DisplayName
	sess.State = domain.StateAuthenticated

	m.logger.Info("session authenticated", "session", sess.ID, "user", identity.ID)
	return identity, nil
}

// Verify re-checks the CSRF state presented by a state-mutating request.
func (m *Machine) Verify(sess *domain.Session, presented string) error {
	if sess.CSRFState == "" || !equalState(sess.CSRFState, presented) {
		m.logger.Warn("request state mismatch", "session", sess.ID)
		return domain.ErrStateMismatch
	}
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// AccessToken returns a usable access token for an authenticated session,
// refreshing it first if it has expired.
func (m *Machine) AccessToken(ctx context.Context, sess *domain.Session) (string, error) {
	if !sess.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}
	if !sess.Token.Expired(m.now()) {
		return sess.Token.AccessToken, nil
	}
	if sess.Token.RefreshToken == "" {
		return "", fmt.Errorf("%w: access token expired", domain.ErrNotAuthenticated)
	}

	token, err := m.authenticator.Refresh(ctx, sess.Token)
	if err != nil {
		m.logger.Error("token refresh failed", "session", sess.ID, "err", err)
		return "", fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = sess.Token.RefreshToken
	}
	sess.Token = token

	m.logger.Debug("access token refreshed", "session", sess.ID)
	return token.AccessToken, nil
}

// Logout returns the session to Unauthenticated. It is idempotent.
func (m *Machine) Logout(sess *domain.Session) {
	sess.Reset()
	m.logger.Debug("session logged out", "session", sess.ID)
}

func newState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func equalState(expected, presented string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}

func asExchangeError(err error) error {
	var re *domain.RemoteError
	if errors.As(err, &re) && errors.Is(err, domain.ErrTokenExchangeFailed) {
		return err
	}
	return &domain.RemoteError{
		Kind:       domain.ErrTokenExchangeFailed,
		StatusCode: domain.StatusCode(err),
		Detail:     err.Error(),
	}
}
