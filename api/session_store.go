package api

import (
	"sync"
	"time"

	"solwindx/client"

	"github.com/google/uuid"
)

// Session is one page view and the client serving it
type Session struct {
	ID      string
	Client  *client.Client
	Created time.Time

	lastSeen time.Time
}

// SessionStore holds live sessions by ID
type SessionStore struct {
	data  map[string]*Session
	mutex sync.RWMutex
	now   func() time.Time
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]*Session),
		now:  time.Now,
	}
}

// Create registers a new session for c
func (s *SessionStore) Create(c *client.Client) *Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	session := &Session{
		ID:       uuid.NewString(),
		Client:   c,
		Created:  now,
		lastSeen: now,
	}
	s.data[session.ID] = session
	return session
}

// Get returns the session and marks it as used
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, exists := s.data[id]
	if !exists {
		return nil, false
	}
	session.lastSeen = s.now()
	return session, true
}

// Delete removes a session and releases its view
func (s *SessionStore) Delete(id string) bool {
	s.mutex.Lock()
	session, exists := s.data[id]
	delete(s.data, id)
	s.mutex.Unlock()

	if exists {
		session.Client.Close()
	}
	return exists
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// PruneIdle removes sessions unused for longer than maxAge
func (s *SessionStore) PruneIdle(maxAge time.Duration) int {
	s.mutex.Lock()
	cutoff := s.now().Add(-maxAge)
	var pruned []*Session
	for id, session := range s.data {
		if session.lastSeen.Before(cutoff) {
			delete(s.data, id)
			pruned = append(pruned, session)
		}
	}
	s.mutex.Unlock()

	for _, session := range pruned {
		session.Client.Close()
	}
	return len(pruned)
}
