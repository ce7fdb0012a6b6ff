package auth

import (
	"path/filepath"
	"testing"

	"market-weekly/mirror"
)

func openTestMirror(t *testing.T) *mirror.Mirror {
	t.Helper()
	m, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("mirror.Open: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestLogin(t *testing.T) {
	m := openTestMirror(t)
	s := NewSession("8888", m)

	if s.IsAdmin() {
		t.Error("expected a fresh session to be locked")
	}
	if s.Login("wrong") {
		t.Error("expected a wrong passphrase to fail")
	}
	if s.IsAdmin() {
		t.Error("expected the session to stay locked after a failed attempt")
	}
	if !s.Login("8888") {
		t.Error("expected the correct passphrase to succeed")
	}
	if !s.IsAdmin() {
		t.Error("expected admin mode after login")
	}
}

func TestEmptySecretNeverUnlocks(t *testing.T) {
	s := NewSession("", openTestMirror(t))
	if s.Login("") {
		t.Error("expected an empty secret to reject everything")
	}
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	m := openTestMirror(t)

	s := NewSession("8888", m)
	s.Login("8888")

	restored := NewSession("8888", m)
	if !restored.IsAdmin() {
		t.Error("expected the persisted flag to restore admin mode")
	}

	restored.Logout()
	again := NewSession("8888", m)
	if again.IsAdmin() {
		t.Error("expected logout to clear the persisted flag")
	}
}
