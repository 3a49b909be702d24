package ports

import (
	"context"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/features/tracking/domain"
)

// TrackingService defines the primary port for live tracking sessions.
type TrackingService interface {
	// Open starts a session for a booking. A nil destination falls back to the booking's own.
	Open(ctx context.Context, bookingID string, destination *geo.Coordinate) (*domain.SessionView, error)
	// Get returns the current view of a session.
	Get(ctx context.Context, sessionID string) (*domain.SessionView, error)
	// Close stops and forgets a session.
	Close(sessionID string) error
}
