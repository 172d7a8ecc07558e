package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-bfhl/pkg/controller"
)

// DefaultSessionTTL is how long an idle browser session keeps its form.
const DefaultSessionTTL = 30 * time.Minute

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() (*controller.Controller, error)

// Session is one browser's form.
type Session struct {
	id       string
	ctrl     *controller.Controller
	notice   *controller.Notice
	lastSeen time.Time
}

// ID is the cookie value identifying the session.
func (s *Session) ID() string { return s.id }

// Controller is the session's form controller.
func (s *Session) Controller() *controller.Controller { return s.ctrl }

// SessionStore keeps one controller per browser session in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	factory  ControllerFactory
}

// NewSessionStore returns an empty store. A non-positive ttl selects
// DefaultSessionTTL.
func NewSessionStore(factory ControllerFactory, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		factory:  factory,
	}
}

// Acquire returns the live session for id, or a fresh one with a new id when
// id is unknown or expired.
func (s *SessionStore) Acquire(id string) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		if now.Sub(sess.lastSeen) < s.ttl {
			sess.lastSeen = now
			return sess, false, nil
		}
		delete(s.sessions, id)
	}

	ctrl, err := s.factory()
	if err != nil {
		return nil, false, err
	}
	sess := &Session{
		id:       uuid.NewString(),
		ctrl:     ctrl,
		lastSeen: now,
	}
	s.sessions[sess.id] = sess
	return sess, true, nil
}

// SetNotice stores a notice shown on the session's next page view.
func (s *SessionStore) SetNotice(sess *Session, notice controller.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.notice = &notice
}

// TakeNotice returns and clears the pending notice.
func (s *SessionStore) TakeNotice(sess *Session) *controller.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice := sess.notice
	sess.notice = nil
	return notice
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = s.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
