package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

const (
	DefaultAPIURL = "https://api.spotify.com/v1"

	searchLimit = 1
)

// ErrAPI is the kind of every error returned by Client. The remote status, if
// any, is available through domain.StatusCode.
var ErrAPI = errors.New("spotify API request failed")

// Client implements ports.MusicClient against the Spotify Web API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a Spotify API client. If client is nil,
// http.DefaultClient is used; an empty baseURL selects DefaultAPIURL.
func NewClient(client *http.Client, baseURL string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ ports.MusicClient = (*Client)(nil)

// -- API request/response types (internal) -----------------------------------

type searchResponse struct {
	Tracks struct {
		Items []trackItem `json:"items"`
	} `json:"tracks"`
}

type trackItem struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

type userResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type createPlaylistRequest struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type createPlaylistResponse struct {
	ID string `json:"id"`
}

type addTracksRequest struct {
	URIs     []string `json:"uris"`
	Position int      `json:"position"`
}

// -- MusicClient implementation ----------------------------------------------

func (c *Client) Search(ctx context.Context, token string, query string) (ports.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&type=track&limit=%d", c.baseURL, url.QueryEscape(query), searchLimit)

	status, body, err := c.do(ctx, http.MethodGet, token, endpoint, nil)
	result := ports.SearchResult{StatusCode: status}
	if err != nil {
		return result, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return result, apiError(status, "failed to parse search response: "+err.Error())
	}

	for _, item := range resp.Tracks.Items {
		if item.URI != "" {
			result.URIs = append(result.URIs, item.URI)
		}
	}
	return result, nil
}

func (c *Client) CreatePlaylist(ctx context.Context, token string, userID string, name string) (ports.CreatedPlaylist, error) {
	payload, err := json.Marshal(createPlaylistRequest{Name: name, Public: false})
	if err != nil {
		return ports.CreatedPlaylist{}, err
	}

	endpoint := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, url.PathEscape(userID))
	status, body, err := c.do(ctx, http.MethodPost, token, endpoint, payload)
	created := ports.CreatedPlaylist{StatusCode: status}
	if err != nil {
		return created, err
	}

	var resp createPlaylistResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == "" {
		return created, apiError(status, "failed to parse create playlist response")
	}

	created.ID = resp.ID
	return created, nil
}

func (c *Client) AddTracks(ctx context.Context, token string, playlistID string, uris []string) (int, error) {
	payload, err := json.Marshal(addTracksRequest{URIs: uris, Position: 0})
	if err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, url.PathEscape(playlistID))
	status, _, err := c.do(ctx, http.MethodPost, token, endpoint, payload)
	return status, err
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	_, body, err := c.do(ctx, http.MethodGet, token, c.baseURL+"/me", nil)
	if err != nil {
		return domain.Identity{}, err
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		return domain.Identity{}, apiError(http.StatusOK, "failed to parse user response")
	}

	return domain.Identity{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// -- HTTP helpers ------------------------------------------------------------

// do sends an authenticated request and returns the status code and body.
// Any non-2xx status is an error; the status is returned either way.
func (c *Client) do(ctx context.Context, method, token, endpoint string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, apiError(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, apiError(resp.StatusCode, "failed to read response: "+err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, body, apiError(resp.StatusCode, errorMessage(body))
	}

	return resp.StatusCode, body, nil
}

func apiError(status int, detail string) error {
	return &domain.RemoteError{Kind: ErrAPI, StatusCode: status, Detail: detail}
}

// errorMessage extracts the message of a Web API error object, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
