package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/party"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore(WithTTL(time.Hour), WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) newApp() *application.Application {
	return application.New(id.NewApplicationID(), "01", s.now, allocation.StrategyEqual)
}

func (s *InMemoryStoreSuite) TestCreateAndGet() {
	s.Run("returns a copy of the stored application", func() {
		app := s.newApp()
		s.Require().NoError(s.store.Create(s.ctx, app))

		found, err := s.store.Get(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(app.Number, found.Number)

		found.Owners = append(found.Owners, party.NewIndividual(1))
		again, err := s.store.Get(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Empty(again.Owners, "mutating a loaded copy must not leak into the store")
	})

	s.Run("rejects a duplicate id", func() {
		app := s.newApp()
		s.Require().NoError(s.store.Create(s.ctx, app))
		s.ErrorIs(s.store.Create(s.ctx, app), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Get(s.ctx, id.NewApplicationID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestSaveVersioning() {
	app := s.newApp()
	s.Require().NoError(s.store.Create(s.ctx, app))

	s.Run("accepts the next version", func() {
		next := app.Clone()
		next.Version = 1
		s.Require().NoError(s.store.Save(s.ctx, next))
	})

	s.Run("rejects a stale version", func() {
		stale := app.Clone()
		stale.Version = 1
		s.ErrorIs(s.store.Save(s.ctx, stale), sentinel.ErrConflict)
	})

	s.Run("rejects unknown applications", func() {
		other := s.newApp()
		other.Version = 1
		s.ErrorIs(s.store.Save(s.ctx, other), sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestExpiry() {
	app := s.newApp()
	s.Require().NoError(s.store.Create(s.ctx, app))

	s.now = s.now.Add(2 * time.Hour)
	_, err := s.store.Get(s.ctx, app.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(1, s.store.Purge())
}
