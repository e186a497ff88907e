package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionRegistry is the source of truth for "who is online". It maps each
// live connection to the Session registered on it. All methods are safe for
// concurrent use; the registry never takes another store's lock.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[*Client]*Session
	order    []*Client // registration order, for presence broadcasts
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[*Client]*Session),
	}
}

// Register creates a Session keyed by the connection. A missing userId gets
// a generated one; a missing display name is rejected with ErrInvalidInput.
// Registering an already-registered connection returns the existing session
// unchanged, preserving the one-session-per-connection invariant.
func (r *SessionRegistry) Register(c *Client, userID, displayName string) (*Session, error) {
	if displayName == "" {
		return nil, fmt.Errorf("%w: displayName is required", ErrInvalidInput)
	}
	if userID == "" {
		userID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[c]; ok {
		return existing, nil
	}

	session := &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		DisplayName: displayName,
		ConnectedAt: time.Now(),
	}
	r.sessions[c] = session
	r.order = append(r.order, c)
	return session, nil
}

// Lookup returns the session registered on the connection, if any.
func (r *SessionRegistry) Lookup(c *Client) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[c]
	return session, ok
}

// Remove deletes and returns the session for the connection. It is
// idempotent: a second call on the same connection reports not-found.
func (r *SessionRegistry) Remove(c *Client) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[c]
	if !ok {
		return nil, false
	}
	delete(r.sessions, c)
	for i, handle := range r.order {
		if handle == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return session, true
}

// ListOnline returns every active session in registration order.
func (r *SessionRegistry) ListOnline() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]*Session, 0, len(r.order))
	for _, c := range r.order {
		online = append(online, r.sessions[c])
	}
	return online
}

// Count returns the number of active sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
