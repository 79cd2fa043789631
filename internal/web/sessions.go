package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tibrahi/portfolio/internal/catalog"
	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/pkg/log"
)

// Session is one visitor. It owns its views and its contact submission state;
// nothing is shared between sessions.
type Session struct {
	ID string

	catalog    *Catalog
	submission *contact.Submission

	mu       sync.Mutex
	views    map[string]*catalog.View
	lastSeen time.Time
}

// View returns the named view, mounting it on first use.
func (s *Session) View(name string) (*catalog.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.views[name]; ok {
		return v, nil
	}
	v, err := s.catalog.Mount(name)
	if err != nil {
		return nil, err
	}
	s.views[name] = v
	return v, nil
}

// Submission is the visitor's contact relay state.
func (s *Session) Submission() *contact.Submission { return s.submission }

// SessionGauge receives the live session count.
type SessionGauge interface {
	SetActiveSessions(n int)
}

// Sessions keeps visitor sessions in memory and evicts idle ones.
type Sessions struct {
	catalog *Catalog
	ttl     time.Duration
	now     func() time.Time
	gauge   SessionGauge
	limit   int

	mu    sync.Mutex
	items map[string]*Session
}

// SessionsOption customises a Sessions store.
type SessionsOption func(*Sessions)

// WithSessionLimit caps the number of live sessions. Creating one past the cap
// evicts the least recently seen session.
func WithSessionLimit(n int) SessionsOption {
	return func(s *Sessions) { s.limit = n }
}

// NewSessions returns an empty store. gauge may be nil.
func NewSessions(c *Catalog, ttl time.Duration, gauge SessionGauge, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		catalog: c,
		ttl:     ttl,
		now:     time.Now,
		gauge:   gauge,
		items:   make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a live session and marks it as seen.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.items, id)
		s.report()
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Create starts a new session with a random id.
func (s *Sessions) Create() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		catalog:    s.catalog,
		submission: contact.NewSubmission(),
		views:      make(map[string]*catalog.View),
		lastSeen:   s.now(),
	}

	s.mu.Lock()
	if s.limit > 0 {
		for len(s.items) >= s.limit {
			s.evictOldest()
		}
	}
	s.items[sess.ID] = sess
	s.report()
	s.mu.Unlock()
	return sess
}

// evictOldest drops the least recently seen session. Called with mu held.
func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.items {
		sess.mu.Lock()
		seen := sess.lastSeen
		sess.mu.Unlock()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(s.items, oldestID)
}

// Len is the number of sessions held, expired or not.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.items {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	if removed > 0 {
		s.report()
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	const op = "web/sessions/Run"
	lg := log.From(ctx)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("session_janitor_stop", slog.String("op", op))
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				lg.Debug("sessions_evicted", slog.String("op", op), slog.Int("count", n))
			}
		}
	}
}

// report is called with mu held.
func (s *Sessions) report() {
	if s.gauge != nil {
		s.gauge.SetActiveSessions(len(s.items))
	}
}
