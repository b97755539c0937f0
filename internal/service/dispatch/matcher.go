// Package dispatch picks the agent closest to a task's pickup point.
package dispatch

import (
	"service-delivery/internal/domain"
	"service-delivery/internal/geo"
)

// Match is the selected agent and its distance to the pickup point in kilometers.
type Match struct {
	Agent      domain.Agent
	DistanceKm float64
}

// Matcher selects the nearest located agent.
type Matcher struct {
	distance func(a, b geo.Point) (float64, error)
}

// NewMatcher returns a Matcher using geodesic distance.
func NewMatcher() *Matcher {
	return &Matcher{distance: geo.Distance}
}

// FindNearest scans candidates in order and returns the one closest to pickup.
// Agents without a known location are skipped. A candidate replaces the current best only
// when strictly closer, so the earliest candidate wins ties. ok is false if no candidate
// has a location.
func (m *Matcher) FindNearest(pickup geo.Point, candidates []domain.Agent) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, a := range candidates {
		d, err := m.distance(a.Location(), pickup)
		if err != nil {
			continue
		}
		if !found || d < best.DistanceKm {
			best = Match{Agent: a, DistanceKm: d}
			found = true
		}
	}
	return best, found
}
