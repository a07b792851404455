package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName is the session cookie issued on login.
const CookieName = "sid"

// Manager issues and validates signed session cookies backed by a
// Store. Cookie values are "<sid>.<hmac>" so a forged sid is rejected
// before the store is consulted.
type Manager struct {
	store  *Store
	secret []byte
	maxAge time.Duration
}

// NewManager wraps store with cookie handling.
func NewManager(store *Store, secret string, maxAge time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), maxAge: maxAge}
}

func (m *Manager) sign(sid string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sid))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) encode(sid string) string {
	return sid + "." + m.sign(sid)
}

func (m *Manager) decode(value string) (string, bool) {
	sid, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(sid))) {
		return "", false
	}
	return sid, true
}

// Start mints a fresh session for username and sets the cookie.
func (m *Manager) Start(c *gin.Context, username string) {
	sid := uuid.NewString()
	m.store.Set(sid, Record{
		Data:      Data{Username: username, Authenticated: true},
		ExpiresAt: time.Now().Add(m.maxAge).UnixMilli(),
	})
	c.SetCookie(CookieName, m.encode(sid), int(m.maxAge.Seconds()), "/", "", false, true)
}

// Current returns the session data for the request's cookie, sliding
// the expiry forward on each authenticated hit.
func (m *Manager) Current(c *gin.Context) (Data, bool) {
	value, err := c.Cookie(CookieName)
	if err != nil {
		return Data{}, false
	}
	sid, ok := m.decode(value)
	if !ok {
		return Data{}, false
	}
	rec, ok := m.store.Get(sid)
	if !ok || !rec.Data.Authenticated {
		return Data{}, false
	}
	rec.ExpiresAt = time.Now().Add(m.maxAge).UnixMilli()
	m.store.Touch(sid, rec)
	return rec.Data, true
}

// Destroy removes the request's session and clears the cookie.
func (m *Manager) Destroy(c *gin.Context) {
	if value, err := c.Cookie(CookieName); err == nil {
		if sid, ok := m.decode(value); ok {
			m.store.Destroy(sid)
		}
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
