package domain

import (
	"errors"
	"fmt"
)

var (
	// Parse errors
	ErrMalformedPlaylist = errors.New("malformed playlist")
	ErrNoTracksFound     = errors.New("no tracks found")

	// Authorization errors
	ErrStateMismatch       = errors.New("state mismatch")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrNotAuthenticated    = errors.New("not authenticated")

	// Import errors
	ErrNoTracksResolved       = errors.New("no tracks were resolved")
	ErrPlaylistCreationFailed = errors.New("error creating playlist")
)

// RemoteError attaches the remote API's status code and error text to one of
// the sentinel errors above. StatusCode is 0 when no response was received.
type RemoteError struct {
	Kind       error
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%v: status %d: %s", e.Kind, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	case e.Detail != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	default:
		return e.Kind.Error()
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// StatusCode returns the remote status carried by err, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
