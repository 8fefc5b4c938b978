package referencedata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	snap  Snapshot
	err   error
}

func (s *countingSource) Fetch(_ context.Context) (Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestService_CachesSnapshot(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{snap: Default()}
	svc := NewService(src)

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	second, err := svc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
}

func TestService_RefetchesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{snap: Default()}
	cache := NewInMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	svc := NewService(src, WithCache(cache))

	_, err := svc.Get(ctx)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = svc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestService_PropagatesSourceFailure(t *testing.T) {
	src := &countingSource{err: errors.New("dropdown service down")}
	_, err := NewService(src).Get(context.Background())
	require.Error(t, err)
}

func TestSnapshot_Membership(t *testing.T) {
	snap := Default()
	assert.True(t, snap.HasCountry("01"))
	assert.False(t, snap.HasCountry("99"))
	assert.True(t, snap.HasRegion(CountryUSA, "ny"))
	assert.False(t, snap.HasRegion(CountryUSA, "ON"))
	assert.True(t, snap.HasRegion(CountryCanada, "ON"))
	assert.True(t, snap.HasRegion("04", "anything"), "no region list for other countries")

	var empty Snapshot
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.HasGender("X"), "empty lists accept any code")
}

func TestService_ServesCustomEntries(t *testing.T) {
	snap := Snapshot{
		Countries: []Entry{{Code: "01", Description: "United States"}},
		Gender:    []Entry{{Code: "M", Description: "Male"}, {Code: "F", Description: "Female"}},
	}
	opts := []Option{WithCache(NewInMemoryCache(time.Minute))}
	svc := NewService(StaticSource{Snapshot: snap}, opts...)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Code: "01", Description: "United States"}}, got.Countries)
	assert.True(t, got.HasGender("f"))
	assert.False(t, got.HasGender("X"))
	assert.True(t, got.HasOccupation("anything"), "occupation list not served")
}
