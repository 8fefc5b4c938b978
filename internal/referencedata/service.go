package referencedata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"intake/pkg/platform/sentinel"
)

// Source is the remote dropdown service.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Cache stores the last snapshot fetched from the Source.
type Cache interface {
	Load(ctx context.Context) (Snapshot, error)
	Store(ctx context.Context, snap Snapshot) error
}

// Service serves reference data from the cache and falls back to the Source.
type Service struct {
	source Source
	cache  Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithCache(cache Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// NewService builds a Service. Without WithCache an in-memory cache with a
// ten minute TTL is used.
func NewService(source Source, opts ...Option) *Service {
	s := &Service{source: source, cache: NewInMemoryCache(10 * time.Minute)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached snapshot, fetching it when the cache is cold.
func (s *Service) Get(ctx context.Context) (Snapshot, error) {
	snap, err := s.cache.Load(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
		s.logger.WarnContext(ctx, "reference data cache read failed", "error", err)
	}
	return s.Refresh(ctx)
}

// Refresh fetches from the Source and replaces the cached copy.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	snap, err := s.source.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.cache.Store(ctx, snap); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "reference data cache write failed", "error", err)
	}
	return snap, nil
}

// StaticSource serves a fixed snapshot.
type StaticSource struct {
	Snapshot Snapshot
}

func (s StaticSource) Fetch(_ context.Context) (Snapshot, error) {
	return s.Snapshot, nil
}
