package domain

import (
	"errors"

	"repair-tracker/internal/core/geo"
)

// ErrInvalidRoute is returned when a route has fewer than two points.
var ErrInvalidRoute = errors.New("invalid route: at least 2 points required")

// Route is an ordered, immutable sequence of waypoints.
// The first point is the start and the last is the destination.
type Route struct {
	points []geo.Coordinate
}

// NewRoute copies points into a Route.
func NewRoute(points []geo.Coordinate) (Route, error) {
	if len(points) < 2 {
		return Route{}, ErrInvalidRoute
	}
	cp := make([]geo.Coordinate, len(points))
	copy(cp, points)
	return Route{points: cp}, nil
}

// Len returns the number of waypoints.
func (r Route) Len() int { return len(r.points) }

// LastIndex returns the index of the destination waypoint.
func (r Route) LastIndex() int { return len(r.points) - 1 }

// At returns the waypoint at index i.
func (r Route) At(i int) geo.Coordinate { return r.points[i] }

// Start returns the first waypoint.
func (r Route) Start() geo.Coordinate { return r.points[0] }

// End returns the destination.
func (r Route) End() geo.Coordinate { return r.points[len(r.points)-1] }

// Points returns a copy of the waypoints.
func (r Route) Points() []geo.Coordinate {
	cp := make([]geo.Coordinate, len(r.points))
	copy(cp, r.points)
	return cp
}

// LengthKm returns the total path length.
func (r Route) LengthKm() float64 {
	return geo.PathLengthKm(r.points)
}

// RemainingKm returns the distance from pos to the destination, travelling
// through waypoint next and every waypoint after it.
func (r Route) RemainingKm(pos geo.Coordinate, next int) float64 {
	if next > r.LastIndex() {
		return 0
	}
	total := geo.DistanceKm(pos, r.points[next])
	for i := next + 1; i < len(r.points); i++ {
		total += geo.DistanceKm(r.points[i-1], r.points[i])
	}
	return total
}
