// Package session tracks the authentication state of live connections. Each
// connection is identified by an opaque ID issued by the multiplexer, so the
// registry never depends on socket representations and can be swapped or
// mocked.
package session

import "github.com/google/uuid"

// Session is the per-connection authentication state. Username is empty
// while the connection is anonymous.
type Session struct {
	ID       uuid.UUID
	Username string
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.Username != ""
}

// Registry maps connection IDs to sessions. It is owned by the dispatcher
// goroutine and is deliberately unsynchronized; all access happens from that
// single goroutine.
type Registry struct {
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Add registers a fresh anonymous session for the connection ID.
func (r *Registry) Add(id uuid.UUID) *Session {
	s := &Session{ID: id}
	r.sessions[id] = s
	return s
}

// Get returns the session for the connection ID, or nil when unknown.
func (r *Registry) Get(id uuid.UUID) *Session {
	return r.sessions[id]
}

// Bind associates the session with a username (login or registration).
func (r *Registry) Bind(id uuid.UUID, username string) {
	if s, ok := r.sessions[id]; ok {
		s.Username = username
	}
}

// Clear makes the session anonymous again. Idempotent.
func (r *Registry) Clear(id uuid.UUID) {
	if s, ok := r.sessions[id]; ok {
		s.Username = ""
	}
}

// Remove destroys the session. Idempotent.
func (r *Registry) Remove(id uuid.UUID) {
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
