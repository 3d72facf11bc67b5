package spotify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

const DefaultAccountsURL = "https://accounts.spotify.com"

// Scopes requested by the authorization flow.
var Scopes = []string{"playlist-modify-public", "playlist-modify-private"}

// OAuthConfig holds the application credentials registered with Spotify.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AccountsURL  string
}

// Authenticator implements ports.Authenticator with the authorization code
// flow. Client credentials are sent as a Basic Authorization header.
type Authenticator struct {
	config *oauth2.Config
	client *http.Client
}

// NewAuthenticator creates an Authenticator. If client is nil,
// http.DefaultClient is used.
func NewAuthenticator(cfg OAuthConfig, client *http.Client) *Authenticator {
	if client == nil {
		client = http.DefaultClient
	}
	accounts := strings.TrimRight(cfg.AccountsURL, "/")
	if accounts == "" {
		accounts = DefaultAccountsURL
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   accounts + "/authorize",
				TokenURL:  accounts + "/api/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: client,
	}
}

var _ ports.Authenticator = (*Authenticator)(nil)

func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

func (a *Authenticator) Exchange(ctx context.Context, code string) (domain.Token, error) {
	token, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return domain.Token{}, tokenError(err)
	}
	return fromOAuth(token), nil
}

func (a *Authenticator) Refresh(ctx context.Context, token domain.Token) (domain.Token, error) {
	src := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	})

	refreshed, err := src.Token()
	if err != nil {
		return domain.Token{}, tokenError(err)
	}
	return fromOAuth(refreshed), nil
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

func fromOAuth(t *oauth2.Token) domain.Token {
	return domain.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// tokenError converts an oauth2 error into a token exchange failure carrying
// the accounts service's status and error code.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		detail := re.ErrorCode
		if detail == "" {
			detail = strings.TrimSpace(string(re.Body))
		}
		return &domain.RemoteError{Kind: domain.ErrTokenExchangeFailed, StatusCode: status, Detail: detail}
	}
	return &domain.RemoteError{Kind: domain.ErrTokenExchangeFailed, Detail: err.Error()}
}
