package ports

import (
	"context"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
)

// SearchResult is the outcome of a single track search. StatusCode is the raw
// HTTP status of the search call (0 if no response arrived) and URIs holds the
// matches in ranking order.
type SearchResult struct {
	StatusCode int
	URIs       []string
}

// CreatedPlaylist is the outcome of a playlist creation call.
type CreatedPlaylist struct {
	ID         string
	StatusCode int
}

// MusicClient is the narrow contract with the remote music service's Web API.
// Every method reports the remote status code alongside any error so callers
// can record it.
type MusicClient interface {
	// Search runs a single-result, track-filtered free-text search.
	Search(ctx context.Context, token string, query string) (SearchResult, error)

	// CreatePlaylist creates a private playlist owned by userID.
	CreatePlaylist(ctx context.Context, token string, userID string, name string) (CreatedPlaylist, error)

	// AddTracks attaches uris, in order, at position zero of the playlist in a
	// single call and returns that call's status code.
	AddTracks(ctx context.Context, token string, playlistID string, uris []string) (int, error)

	// CurrentUser returns the identity the token belongs to.
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
}

// Authenticator performs the OAuth authorization code flow against the
// remote accounts service.
type Authenticator interface {
	// AuthCodeURL returns the authorization URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a token pair.
	Exchange(ctx context.Context, code string) (domain.Token, error)

	// Refresh obtains a new access token using the token's refresh token.
	Refresh(ctx context.Context, token domain.Token) (domain.Token, error)
}

// SessionStore loads and saves sessions keyed by session ID.
type SessionStore interface {
	// Get returns the session for id, or nil if none exists or it expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save stores the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Lock serializes requests for one session ID. The returned func releases it.
	Lock(ctx context.Context, id string) (func(), error)
}

// ImportParams carries what the importer needs from an authenticated session.
type ImportParams struct {
	AccessToken string
	UserID      string
	Request     domain.PlaylistImportRequest
}

// ImportService defines the driving port for the playlist import use case.
type ImportService interface {
	// Import resolves the request's tracks, creates a remote playlist and
	// attaches the resolved tracks. The result is always non-nil and reflects
	// the last stage attempted, including on error.
	Import(ctx context.Context, params ImportParams) (*domain.PlaylistImportResult, error)
}
