// Package auth implements the admin gate: a single shared passphrase
// compared in-process, with the resulting session flag persisted in the
// local mirror until explicit logout. There is no server-side identity
// behind it; this is an editing convenience, not a security boundary.
package auth

import (
	"log"
	"sync"

	"market-weekly/mirror"
)

const sessionKey = "admin_session"

// Session tracks whether the current session is in admin mode.
type Session struct {
	secret string
	mirror *mirror.Mirror

	mu    sync.Mutex
	admin bool
}

// NewSession restores any persisted admin flag from the mirror.
func NewSession(secret string, m *mirror.Mirror) *Session {
	s := &Session{secret: secret, mirror: m}
	if _, err := m.Read(sessionKey, &s.admin); err != nil {
		log.Printf("⚠️  Failed to restore admin session: %v", err)
	}
	return s
}

// Login compares the passphrase and, on success, sets and persists the
// admin flag. It reports whether the attempt succeeded.
func (s *Session) Login(passphrase string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.secret == "" || passphrase != s.secret {
		return false
	}
	s.admin = true
	if err := s.mirror.Write(sessionKey, true); err != nil {
		log.Printf("⚠️  Failed to persist admin session: %v", err)
	}
	return true
}

// Logout clears the admin flag and its persisted copy.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.admin = false
	if err := s.mirror.Delete(sessionKey); err != nil {
		log.Printf("⚠️  Failed to clear admin session: %v", err)
	}
}

// IsAdmin reports whether the session is currently in admin mode.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}
