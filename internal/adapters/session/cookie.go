package session

import (
	"time"

	"github.com/gorilla/securecookie"
)

// CookieName is the name of the cookie carrying the signed session ID.
const CookieName = "playlist_import_session"

// CookieMaxAge bounds how long a signed session cookie is accepted,
// independent of the store's idle timeout.
const CookieMaxAge = 30 * 24 * time.Hour

// Codec signs session IDs so a caller cannot pick another caller's ID.
// Signed values older than the codec's max age are rejected.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec creates a codec signing with secret. A maxAge <= 0 disables the
// age check.
func NewCodec(secret string, maxAge time.Duration) *Codec {
	sc := securecookie.New([]byte(secret), nil)
	sc.MaxAge(max(int(maxAge/time.Second), 0))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Codec{sc: sc}
}

// Encode returns the signed cookie value for id.
func (c *Codec) Encode(id string) (string, error) {
	return c.sc.Encode(CookieName, id)
}

// Decode verifies value and returns the session ID it carries.
func (c *Codec) Decode(value string) (string, bool) {
	var id string
	if err := c.sc.Decode(CookieName, value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}
