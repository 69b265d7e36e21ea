package web

// sessions.go keeps the open views.
//
// A view is one engine over one dataset, addressed by a random id. The store
// map is guarded by an RWMutex; gestures on a single view are serialized by
// that view's own mutex so that slow exports on one view never block
// another. Views idle for longer than the TTL are dropped by Sweep, which Run
// calls on a ticker until its context ends.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/gridview/internal/core"
)

var (
	// ErrViewNotFound is returned for unknown or expired view ids.
	ErrViewNotFound = errors.New("view not found")

	// ErrTooManyViews is returned when the store is full of live views.
	ErrTooManyViews = errors.New("too many open views")
)

// View is an open engine bound to a dataset.
type View struct {
	ID      string
	Dataset core.DatasetInfo

	mu       sync.Mutex
	engine   *core.Engine
	lastUsed atomic.Int64 // unix nanoseconds
}

// Do runs fn with exclusive access to the view's engine.
func (v *View) Do(fn func(e *core.Engine) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fn(v.engine)
}

func (v *View) touch(now time.Time) {
	v.lastUsed.Store(now.UnixNano())
}

func (v *View) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, v.lastUsed.Load()))
}

// SessionStore holds the open views.
type SessionStore struct {
	mu    sync.RWMutex
	views map[string]*View

	ttl time.Duration
	max int
	now func() time.Time
}

// NewSessionStore creates a store evicting views idle for longer than ttl
// and holding at most max views.
func NewSessionStore(ttl time.Duration, max int) *SessionStore {
	return &SessionStore{
		views: make(map[string]*View),
		ttl:   ttl,
		max:   max,
		now:   time.Now,
	}
}

// Create opens a new view. build receives the view id and returns the
// engine the view will own. A full store is swept once before giving up
// with ErrTooManyViews.
func (s *SessionStore) Create(info core.DatasetInfo, build func(id string) (*core.Engine, error)) (*View, error) {
	if s.Len() >= s.max {
		s.Sweep()
		if s.Len() >= s.max {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyViews, s.max)
		}
	}

	id := uuid.NewString()
	engine, err := build(id)
	if err != nil {
		return nil, err
	}

	v := &View{
		ID:      id,
		Dataset: info,
		engine:  engine,
	}
	v.touch(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.views) >= s.max {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManyViews, s.max)
	}
	s.views[v.ID] = v
	return v, nil
}

// Get returns a live view and marks it used.
func (s *SessionStore) Get(id string) (*View, error) {
	s.mu.RLock()
	v, ok := s.views[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	now := s.now()
	if v.idleSince(now) > s.ttl {
		s.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	v.touch(now)
	return v, nil
}

// Delete closes a view. Returns false if it was not open.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.views[id]; !ok {
		return false
	}
	delete(s.views, id)
	return true
}

// Len returns the number of open views.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Sweep drops views idle for longer than the TTL and returns how many were
// dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, v := range s.views {
		if v.idleSince(now) > s.ttl {
			delete(s.views, id)
			dropped++
		}
	}
	return dropped
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
			if n := s.Sweep(); n > 0 {
				slog.Info("expired idle views", "count", n, "open", s.Len())
			}
		}
	}
}
