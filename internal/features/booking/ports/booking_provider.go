package ports

import (
	"context"

	"repair-tracker/internal/features/booking/domain"
)

// BookingProvider reads booking records from the managed backend.
// This is a Secondary Port (Driven Port).
type BookingProvider interface {
	// GetBooking returns the booking or domain.ErrBookingNotFound.
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// BookingInvalidator drops any locally cached copy of a booking.
type BookingInvalidator interface {
	Invalidate(ctx context.Context, bookingID string) error
}

// StatusChangeListener reacts to booking status changes pushed by the backend.
// This is implemented by the tracking feature.
type StatusChangeListener interface {
	// HandleStatusChange returns the number of tracking sessions it stopped.
	HandleStatusChange(ctx context.Context, bookingID string, status domain.BookingStatus) int
}
