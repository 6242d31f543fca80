// Package session keeps per-visitor dashboards for the HTTP view.
//
// Every browser session owns its own [dashboard.Coordinator] and
// [chart.Canvas], so selections never leak between visitors. Sessions live
// in memory only and expire after a period of inactivity; nothing is
// persisted.
//
// # Usage
//
//	store := session.NewStore(30*time.Minute, func(ctx context.Context) (*session.Session, error) {
//	    canvas := chart.NewCanvas(logger)
//	    coord, err := dashboard.New(ds, idx, dashboard.WithSinks(canvas))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &session.Session{Dashboard: coord, Canvas: canvas}, nil
//	})
//	go store.Run(ctx, time.Minute)
//
// The store holds at most [DefaultLimit] sessions unless [WithLimit] says
// otherwise; a full store evicts the least recently used session.
//
//	sess, err := store.Get(id)
//	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
//	    sess, err = store.Create(ctx)
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its idle TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default idle timeout.
const DefaultTTL = 30 * time.Minute

// DefaultLimit is the default maximum number of live sessions.
const DefaultLimit = 1000

// Session is one visitor's dashboard.
type Session struct {
	ID        string
	Dashboard *dashboard.Coordinator
	Canvas    *chart.Canvas
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns the time of the last access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen()) > ttl
}

func (s *Session) close() {
	if s.Dashboard != nil {
		s.Dashboard.Close()
	}
}

// Factory builds the dashboard of a new session. The store assigns the ID
// and timestamps.
type Factory func(ctx context.Context) (*Session, error)

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of live sessions. When the store is full,
// Create drops expired sessions and then the least recently used one.
// A non-positive n means DefaultLimit.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Store is an in-memory session store. It is safe for concurrent use.
type Store struct {
	ttl     time.Duration
	limit   int
	factory Factory
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store. A non-positive ttl means DefaultTTL.
func NewStore(ttl time.Duration, factory Factory, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:      ttl,
		limit:    DefaultLimit,
		factory:  factory,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create builds a session with a fresh uuid and registers it. The
// dashboard's initial frame is drawn before Create returns.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	sess, err := s.factory(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess.ID = uuid.NewString()
	sess.CreatedAt = now
	sess.lastSeen = now
	if sess.Dashboard != nil {
		sess.Dashboard.Refresh()
	}

	s.mu.Lock()
	evicted := s.makeRoomLocked(now)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	for _, old := range evicted {
		old.close()
	}
	return sess, nil
}

// makeRoomLocked removes sessions until one more fits under the limit:
// expired ones first, then the least recently used.
func (s *Store) makeRoomLocked(now time.Time) []*Session {
	if len(s.sessions) < s.limit {
		return nil
	}
	var out []*Session
	for id, sess := range s.sessions {
		if sess.expired(now, s.ttl) {
			out = append(out, sess)
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) >= s.limit {
		var oldest *Session
		for _, sess := range s.sessions {
			if oldest == nil || sess.LastSeen().Before(oldest.LastSeen()) {
				oldest = sess
			}
		}
		out = append(out, oldest)
		delete(s.sessions, oldest.ID)
	}
	return out
}

// Get returns the session and marks it as used. An expired session is
// removed and reported as ErrExpired.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if sess.expired(now, s.ttl) {
		s.Delete(id)
		return nil, ErrExpired
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session and stops its dashboard. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.close()
	}
}

// Cleanup removes every expired session and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context) int {
	now := s.now()
	var stale []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if ctx.Err() != nil {
			break
		}
		if sess.expired(now, s.ttl) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	for _, sess := range stale {
		sess.close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup(ctx)
		}
	}
}

// Close removes every session.
func (s *Store) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.close()
	}
}
