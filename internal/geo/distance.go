// Package geo computes distances between points on the WGS84 ellipsoid.
package geo

import (
	"errors"

	"github.com/tidwall/geodesic"
)

// ErrUnknownLocation is returned when a point lacks a latitude or longitude.
var ErrUnknownLocation = errors.New("geo: location unknown")

// Point is a latitude/longitude pair in degrees. Either component may be absent.
type Point struct {
	Lat *float64
	Lon *float64
}

// NewPoint builds a fully known point.
func NewPoint(lat, lon float64) Point {
	return Point{Lat: &lat, Lon: &lon}
}

// Known reports whether both components are present.
func (p Point) Known() bool {
	return p.Lat != nil && p.Lon != nil
}

// Distance returns the geodesic distance between a and b in kilometers.
// A missing component on either side yields ErrUnknownLocation; callers must not treat that as zero.
func Distance(a, b Point) (float64, error) {
	if !a.Known() || !b.Known() {
		return 0, ErrUnknownLocation
	}
	var meters float64
	geodesic.WGS84.Inverse(*a.Lat, *a.Lon, *b.Lat, *b.Lon, &meters, nil, nil)
	return meters / 1000, nil
}
