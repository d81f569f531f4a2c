package model

import (
	"sync"
)

// User holds the login response data. The shape is decided by the server, so
// it is kept as a free-form map.
type User map[string]any

// Username returns the "username" field if set
func (x User) Username() string {
	if v, ok := x["username"].(string); ok {
		return v
	}
	return ""
}

// Session holds the bearer token of the current login. It is set on login and
// restore, and cleared on logout. The zero value is an anonymous session.
type Session struct {
	token string
	mu    sync.RWMutex
}

// NewSession creates a session with an optional initial token
func NewSession(token string) *Session {
	return &Session{token: token}
}

func (x *Session) Set(token string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.token = token
}

func (x *Session) Get() string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.token
}

func (x *Session) Clear() {
	x.Set("")
}

// LoggedIn reports whether a token is held
func (x *Session) LoggedIn() bool {
	return x.Get() != ""
}

// tokenPaths lists where a login response may carry the token, in priority order
var tokenPaths = [][]string{
	{"data", "token"},
	{"data", "accessToken"},
	{"token"},
}

// ExtractToken returns the first non-empty token found in a decoded login
// response body, following tokenPaths.
func ExtractToken(body map[string]any) string {
	for _, path := range tokenPaths {
		if v := lookupString(body, path); v != "" {
			return v
		}
	}
	return ""
}

func lookupString(m map[string]any, path []string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}
