package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want BookingStatus
		ok   bool
	}{
		{raw: "Booking Confirmed", want: StatusBookingConfirmed, ok: true},
		{raw: "booking_confirmed", want: StatusBookingConfirmed, ok: true},
		{raw: "EN ROUTE", want: StatusEnRoute, ok: true},
		{raw: "en_route", want: StatusEnRoute, ok: true},
		{raw: "in-progress", want: StatusInProgress, ok: true},
		{raw: " Completed ", want: StatusCompleted, ok: true},
		{raw: "cancelled", want: StatusCancelled, ok: true},
		{raw: "reschedule_requested", want: StatusRescheduleRequested, ok: true},
		{raw: "", ok: false},
		{raw: "lost", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
