package domain

import (
	"errors"
	"strings"
	"time"

	"repair-tracker/internal/core/geo"
)

// ErrBookingNotFound is returned when the backend has no booking with the given ID.
var ErrBookingNotFound = errors.New("booking not found")

// BookingStatus is the lifecycle status of a repair booking.
type BookingStatus string

const (
	// StatusBookingConfirmed indicates the customer's booking was accepted.
	StatusBookingConfirmed BookingStatus = "Booking Confirmed"
	// StatusMechanicAssigned indicates a mechanic has been assigned to the job.
	StatusMechanicAssigned BookingStatus = "Mechanic Assigned"
	// StatusEnRoute indicates the mechanic is travelling to the customer.
	StatusEnRoute BookingStatus = "En Route"
	// StatusInProgress indicates the repair is under way.
	StatusInProgress BookingStatus = "In Progress"
	// StatusCompleted indicates the job is finished.
	StatusCompleted BookingStatus = "Completed"
	// StatusCancelled is terminal and outside the milestone timeline.
	StatusCancelled BookingStatus = "Cancelled"
	// StatusRescheduleRequested is outside the milestone timeline.
	StatusRescheduleRequested BookingStatus = "Reschedule Requested"
)

var knownStatuses = []BookingStatus{
	StatusBookingConfirmed,
	StatusMechanicAssigned,
	StatusEnRoute,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusRescheduleRequested,
}

// ParseStatus maps backend spellings ("en_route", "EN ROUTE", "En Route",
// "in-progress") onto a BookingStatus. ok is false for unknown values.
func ParseStatus(raw string) (BookingStatus, bool) {
	key := normalize(raw)
	if key == "" {
		return "", false
	}
	for _, s := range knownStatuses {
		if normalize(string(s)) == key {
			return s, true
		}
	}
	return "", false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

// TimelineEntry is one status change in a booking's history.
type TimelineEntry struct {
	// Status is the status the booking moved to.
	Status BookingStatus `json:"status"`
	// Timestamp is when the change happened.
	Timestamp time.Time `json:"timestamp"`
}

// ServiceInfo describes the repair job.
type ServiceInfo struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
	Notes   string `json:"notes,omitempty"`
}

// Booking is the read-only view of a repair booking owned by the backend.
type Booking struct {
	// ID is the backend identifier of the booking.
	ID string `json:"id"`
	// Status is the current status.
	Status BookingStatus `json:"status"`
	// StatusHistory is the append-only list of past status changes.
	StatusHistory []TimelineEntry `json:"status_history"`
	// MechanicLocation is the last known mechanic position, nil when unknown.
	MechanicLocation *geo.Coordinate `json:"mechanic_location,omitempty"`
	// Destination is the customer's service address, nil when unknown.
	Destination *geo.Coordinate `json:"destination,omitempty"`
	// Service describes the job.
	Service ServiceInfo `json:"service"`
}
