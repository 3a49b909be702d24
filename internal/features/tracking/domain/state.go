package domain

import "repair-tracker/internal/core/geo"

// StepMode selects how the simulated mover advances on each tick.
type StepMode string

const (
	// StepModeDiscrete jumps one waypoint per tick.
	StepModeDiscrete StepMode = "discrete"
	// StepModeInterpolated moves a fraction of the way to the next waypoint per tick.
	StepModeInterpolated StepMode = "interpolated"
)

// Valid reports whether m is a known step mode.
func (m StepMode) Valid() bool {
	return m == StepModeDiscrete || m == StepModeInterpolated
}

// SimulationState is a read-only snapshot of a simulated mover.
type SimulationState struct {
	// CurrentPosition is where the mover is now.
	CurrentPosition geo.Coordinate `json:"current_position"`
	// WaypointIndex is the index of the last waypoint reached.
	WaypointIndex int `json:"waypoint_index"`
	// RemainingDistanceKm is the distance left along the route.
	RemainingDistanceKm float64 `json:"remaining_distance_km"`
	// EtaMinutes is the rounded-up travel time left at the assumed speed.
	EtaMinutes int `json:"eta_minutes"`
	// Arrived is set once the destination is reached.
	Arrived bool `json:"arrived"`
}
