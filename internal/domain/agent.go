package domain

import (
	"time"

	"service-delivery/internal/geo"
)

// Agent represents a delivery courier tracked by the registry.
type Agent struct {
	ID                 int64
	UserID             string
	VehicleType        string
	Latitude           *float64
	Longitude          *float64
	IsAvailable        bool
	LastLocationUpdate *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Location returns the last reported position; it may be unknown.
func (a Agent) Location() geo.Point {
	return geo.Point{Lat: a.Latitude, Lon: a.Longitude}
}

// LocationUpdate is the only mutation an agent may apply to its own record.
type LocationUpdate struct {
	UserID     string
	Latitude   float64
	Longitude  float64
	ReportedAt time.Time
}
