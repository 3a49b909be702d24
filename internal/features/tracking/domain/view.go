package domain

import (
	"time"

	"repair-tracker/internal/core/geo"
	bookingdomain "repair-tracker/internal/features/booking/domain"
	"repair-tracker/internal/features/booking/timeline"
)

// SessionStatus is the lifecycle status of a tracking session.
type SessionStatus string

const (
	// SessionIdle means the session was created but not started.
	SessionIdle SessionStatus = "idle"
	// SessionUnavailable means a coordinate was missing; there is no route and no timer.
	SessionUnavailable SessionStatus = "unavailable"
	// SessionRunning means the timer is driving the simulator.
	SessionRunning SessionStatus = "running"
	// SessionArrived means the simulated mover reached the destination.
	SessionArrived SessionStatus = "arrived"
	// SessionStopped means the session was stopped before arrival.
	SessionStopped SessionStatus = "stopped"
)

// DisplayText holds the formatted strings a view shows next to the map.
type DisplayText struct {
	Distance string `json:"distance"`
	ETA      string `json:"eta"`
}

// MapView is the payload handed to the map surface. Simulated is always true:
// the route and the moving marker are synthetic, not GPS.
type MapView struct {
	Route             []geo.Coordinate `json:"route"`
	CurrentPosition   geo.Coordinate   `json:"current_position"`
	SourceMarker      geo.Coordinate   `json:"source_marker"`
	DestinationMarker geo.Coordinate   `json:"destination_marker"`
	Simulated         bool             `json:"simulated"`
}

// SessionView is what a polling client receives for one tracking session.
type SessionView struct {
	ID        string                    `json:"id"`
	BookingID string                    `json:"booking_id"`
	Status    SessionStatus             `json:"status"`
	Message   string                    `json:"message,omitempty"`
	State     *SimulationState          `json:"state,omitempty"`
	Display   *DisplayText              `json:"display,omitempty"`
	Map       *MapView                  `json:"map,omitempty"`
	Progress  timeline.Progress         `json:"progress"`
	Service   bookingdomain.ServiceInfo `json:"service"`
	StartedAt time.Time                 `json:"started_at,omitempty"`
}
