package memory

import (
	"context"
	"sync"
	"time"

	"intake/internal/application"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
)

type entry struct {
	app       *application.Application
	expiresAt time.Time
}

// InMemoryStore keeps sessions in process. Applications are cloned on the
// way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]entry
	ttl  time.Duration
	now  func() time.Time
}

type Option func(*InMemoryStore)

// WithTTL expires sessions that have not been saved for ttl. Zero keeps
// them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *InMemoryStore) {
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{apps: make(map[id.ApplicationID]entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Create(_ context.Context, app *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.apps[app.ID]; ok && !s.expired(e) {
		return sentinel.ErrConflict
	}
	s.apps[app.ID] = s.entryFor(app)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, appID id.ApplicationID) (*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.apps[appID]
	if !ok || s.expired(e) {
		return nil, sentinel.ErrNotFound
	}
	return e.app.Clone(), nil
}

// Save replaces the stored session when app.Version is exactly one above
// the stored version.
func (s *InMemoryStore) Save(_ context.Context, app *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.apps[app.ID]
	if !ok || s.expired(e) {
		return sentinel.ErrNotFound
	}
	if e.app.Version != app.Version-1 {
		return sentinel.ErrConflict
	}
	s.apps[app.ID] = s.entryFor(app)
	return nil
}

// Purge drops expired sessions and returns how many were removed.
func (s *InMemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for appID, e := range s.apps {
		if s.expired(e) {
			delete(s.apps, appID)
			removed++
		}
	}
	return removed
}

func (s *InMemoryStore) entryFor(app *application.Application) entry {
	e := entry{app: app.Clone()}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *InMemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
