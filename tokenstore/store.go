// Package tokenstore persists the access token and the payment-redirect
// auth marker across process restarts.
//
// Stores never surface errors to callers: a store whose backing medium is
// unavailable degrades to a no-op, so callers can treat persistence as
// best-effort and always re-derive in-memory state from the store on start.
package tokenstore

import "time"

// MarkerTTL is how long a persisted auth marker stays valid after it is set.
// An older marker is treated as absent.
const MarkerTTL = time.Hour

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Store is a durable key-value holder for the session token and the
// auth marker set before redirecting to an external payment page.
type Store interface {
	// SetToken persists the access token. An empty token removes it.
	SetToken(token string)

	// Token returns the persisted access token, or "" when absent.
	Token() string

	// SetMarker records that an authenticated session existed at this
	// instant. It is a no-op when no token is persisted.
	SetMarker()

	// ReadMarker reports whether a token, a persisted flag and a
	// timestamp younger than MarkerTTL are all present. The check is
	// non-destructive: an expired marker is left in place.
	ReadMarker() bool

	// Clear removes the token and the marker.
	Clear()
}

// session is the persisted wire form, shared by the file and Redis stores.
type session struct {
	AccessToken   string `json:"access_token"`
	AuthTimestamp int64  `json:"auth_timestamp,omitempty"` // unix milliseconds
	AuthPersisted bool   `json:"auth_persisted,omitempty"`
}

func (s session) markerValid() bool {
	if s.AccessToken == "" || !s.AuthPersisted || s.AuthTimestamp == 0 {
		return false
	}
	age := NowTimeFunc().UnixMilli() - s.AuthTimestamp
	return age >= 0 && age < MarkerTTL.Milliseconds()
}
