package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the lookup state of one browser: the tag being composed.
type Session struct {
	ID       string
	Tag      string
	LastSeen time.Time
}

// SessionStore keeps lookup sessions in memory. Sessions idle for longer
// than the idle timeout are swept; when the store is full the least
// recently seen session is evicted to make room.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	max      int
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(idle time.Duration, max int) *SessionStore {
	if max < 1 {
		max = 1
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		idle:     idle,
		max:      max,
		now:      time.Now,
	}
}

// Get returns the session with id and marks it as seen. Expired sessions
// are treated as missing.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return Session{}, false
	}
	sess.LastSeen = now
	return *sess, true
}

// Create starts a new session with an empty tag.
func (s *SessionStore) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		s.evictOldest()
	}

	sess := &Session{ID: uuid.NewString(), LastSeen: s.now()}
	s.sessions[sess.ID] = sess
	return *sess
}

// SetTag stores tag for the session. It reports false if the session no
// longer exists.
func (s *SessionStore) SetTag(id, tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Tag = tag
	sess.LastSeen = s.now()
	return true
}

// Update replaces the session's tag with fn applied to it, holding the
// lock across the read and the write. It returns the new tag and reports
// false if the session no longer exists.
func (s *SessionStore) Update(id string, fn func(tag string) string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	sess.Tag = fn(sess.Tag)
	sess.LastSeen = s.now()
	return sess.Tag, true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.idle > 0 && now.Sub(sess.LastSeen) > s.idle
}

// evictOldest drops the least recently seen session. Callers hold mu.
func (s *SessionStore) evictOldest() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.LastSeen.Before(oldest.LastSeen) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.ID)
	}
}
