package chat

import (
	"errors"
	"testing"
)

func newTestConn() *Client {
	return &Client{send: make(chan []byte, 32), addr: "test-conn"}
}

func TestRegisterGeneratesUserID(t *testing.T) {
	registry := NewSessionRegistry()

	session, err := registry.Register(newTestConn(), "", "Alice")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if session.UserID == "" {
		t.Error("Register() did not generate a userId")
	}
	if session.ID == "" {
		t.Error("Register() did not assign a sessionId")
	}
	if session.DisplayName != "Alice" {
		t.Errorf("Register() displayName = %q, want %q", session.DisplayName, "Alice")
	}
}

func TestRegisterKeepsSuppliedUserID(t *testing.T) {
	registry := NewSessionRegistry()

	session, err := registry.Register(newTestConn(), "user-42", "Alice")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if session.UserID != "user-42" {
		t.Errorf("Register() userId = %q, want %q", session.UserID, "user-42")
	}
}

func TestRegisterEmptyDisplayName(t *testing.T) {
	registry := NewSessionRegistry()

	if _, err := registry.Register(newTestConn(), "user-1", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Register() error = %v, want ErrInvalidInput", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d after failed register, want 0", registry.Count())
	}
}

func TestRegisterSameConnectionTwice(t *testing.T) {
	registry := NewSessionRegistry()
	conn := newTestConn()

	first, err := registry.Register(conn, "", "Alice")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	second, err := registry.Register(conn, "", "Impostor")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if second != first {
		t.Error("second Register() on the same connection should return the existing session")
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	registry := NewSessionRegistry()
	conn := newTestConn()
	before := registry.Count()

	if _, err := registry.Register(conn, "", "Alice"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, ok := registry.Remove(conn); !ok {
		t.Error("first Remove() should find the session")
	}
	if _, ok := registry.Remove(conn); ok {
		t.Error("second Remove() should report not-found")
	}
	if registry.Count() != before {
		t.Errorf("Count() = %d after register/remove pair, want %d", registry.Count(), before)
	}
}

func TestListOnlineKeepsRegistrationOrder(t *testing.T) {
	registry := NewSessionRegistry()

	conns := []*Client{newTestConn(), newTestConn(), newTestConn()}
	names := []string{"Alice", "Bob", "Carol"}
	for i, conn := range conns {
		if _, err := registry.Register(conn, "", names[i]); err != nil {
			t.Fatalf("Register(%s) unexpected error: %v", names[i], err)
		}
	}

	// Removing the middle session must preserve the order of the rest.
	registry.Remove(conns[1])

	online := registry.ListOnline()
	if len(online) != 2 {
		t.Fatalf("ListOnline() returned %d sessions, want 2", len(online))
	}
	if online[0].DisplayName != "Alice" || online[1].DisplayName != "Carol" {
		t.Errorf("ListOnline() order = [%s, %s], want [Alice, Carol]",
			online[0].DisplayName, online[1].DisplayName)
	}
}

func TestReconnectCreatesNewSession(t *testing.T) {
	registry := NewSessionRegistry()

	first, err := registry.Register(newTestConn(), "user-1", "Alice")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	// Same userId on a new connection is a new session, never a merge.
	second, err := registry.Register(newTestConn(), "user-1", "Alice")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if first.ID == second.ID {
		t.Error("reconnect reused the previous sessionId")
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}
}
