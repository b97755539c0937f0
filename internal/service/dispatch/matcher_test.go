package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
	"service-delivery/internal/geo"
	"service-delivery/internal/service/dispatch"
)

func located(id int64, lat, lon float64) domain.Agent {
	return domain.Agent{ID: id, Latitude: &lat, Longitude: &lon, IsAvailable: true}
}

var pickup = geo.NewPoint(40.7128, -74.0060)

func TestFindNearest_Empty(t *testing.T) {
	t.Parallel()

	_, ok := dispatch.NewMatcher().FindNearest(pickup, nil)
	require.False(t, ok)
}

func TestFindNearest_SkipsUnlocated(t *testing.T) {
	t.Parallel()

	lat := 40.0
	candidates := []domain.Agent{
		{ID: 1},
		{ID: 2, Latitude: &lat},
	}
	_, ok := dispatch.NewMatcher().FindNearest(pickup, candidates)
	require.False(t, ok)

	candidates = append(candidates, located(3, 41, -74))
	m, ok := dispatch.NewMatcher().FindNearest(pickup, candidates)
	require.True(t, ok)
	require.EqualValues(t, 3, m.Agent.ID)
}

func TestFindNearest_ZeroDistanceMatches(t *testing.T) {
	t.Parallel()

	m, ok := dispatch.NewMatcher().FindNearest(pickup, []domain.Agent{located(1, 40.7128, -74.0060)})
	require.True(t, ok)
	require.EqualValues(t, 1, m.Agent.ID)
	require.Zero(t, m.DistanceKm)
}

func TestFindNearest_PicksClosestRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	// roughly 5 km and 1 km north of pickup
	far := located(1, 40.7578, -74.0060)
	near := located(2, 40.7218, -74.0060)

	m, ok := dispatch.NewMatcher().FindNearest(pickup, []domain.Agent{far, near})
	require.True(t, ok)
	require.EqualValues(t, 2, m.Agent.ID)
	require.InDelta(t, 1.0, m.DistanceKm, 0.05)

	m, ok = dispatch.NewMatcher().FindNearest(pickup, []domain.Agent{near, far})
	require.True(t, ok)
	require.EqualValues(t, 2, m.Agent.ID)
}

func TestFindNearest_TieKeepsFirst(t *testing.T) {
	t.Parallel()

	a := located(7, 40.72, -74.0)
	b := located(3, 40.72, -74.0)

	m, ok := dispatch.NewMatcher().FindNearest(pickup, []domain.Agent{a, b})
	require.True(t, ok)
	require.EqualValues(t, 7, m.Agent.ID)
}
