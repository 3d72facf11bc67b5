package domain

import "time"

// TrackQuery is a free-text search query for a single track, usually
// "Artist - Title".
type TrackQuery struct {
	Title string `json:"track_title" binding:"required"`
}

// PlaylistImportRequest is the playlist-description document accepted by the
// import endpoint and produced by the M3U converter. Track order is the order
// used when attaching to the remote playlist.
type PlaylistImportRequest struct {
	PlaylistName string       `json:"playlist_name"`
	Tracks       []TrackQuery `json:"playlist_tracks" binding:"required,min=1,dive"`
}

// ResolvedTrack is a TrackQuery annotated with the outcome of resolving it
// against the remote search API and, once attached, the attach status.
type ResolvedTrack struct {
	TrackQuery
	StatusCode int    `json:"status_code"`
	RemoteURI  string `json:"uri,omitempty"`
}

// Resolved reports whether a remote URI was found for the track.
func (t ResolvedTrack) Resolved() bool {
	return t.RemoteURI != ""
}

// PlaylistImportResult summarizes the last stage an import reached.
type PlaylistImportResult struct {
	Message    string          `json:"msg"`
	Tracks     []ResolvedTrack `json:"tracks"`
	StatusCode int             `json:"-"`
	PlaylistID string          `json:"-"`
}

// Identity is the remote user an access token belongs to.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Token is an OAuth token pair as bound into a session.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Expired reports whether the access token is past its expiry. A zero
// expiry never expires.
func (t Token) Expired(now time.Time) bool {
	return !t.Expiry.IsZero() && !now.Before(t.Expiry)
}
