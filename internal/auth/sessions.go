package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "fiscal_session"

type session struct {
	email     string
	expiresAt time.Time
}

// SessionManager issues and validates opaque session tokens. Tokens live in
// memory only; a restart logs everyone out.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

// Create issues a fresh token bound to the email.
func (m *SessionManager) Create(email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = session{email: email, expiresAt: time.Now().Add(m.ttl)}
	return token, nil
}

// Lookup resolves a token to its email. Sessions past the halfway point of
// their TTL are renewed on use, so active users never get logged out.
func (m *SessionManager) Lookup(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", false
	}

	now := time.Now()
	if now.After(s.expiresAt) {
		delete(m.sessions, token)
		return "", false
	}

	if s.expiresAt.Sub(now) < m.ttl/2 {
		s.expiresAt = now.Add(m.ttl)
		m.sessions[token] = s
	}
	return s.email, true
}

// Revoke removes a single token. Unknown tokens are ignored.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// RevokeAll removes every session for the email, used on account deletion.
func (m *SessionManager) RevokeAll(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.email == email {
			delete(m.sessions, token)
		}
	}
}

// CleanExpired drops expired sessions and returns how many were removed.
// Satisfies the cache manager's Cleaner interface.
func (m *SessionManager) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for token, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}
