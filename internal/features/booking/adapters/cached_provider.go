package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"repair-tracker/internal/core/cache"
	"repair-tracker/internal/core/logger"
	"repair-tracker/internal/features/booking/domain"
	"repair-tracker/internal/features/booking/ports"

	"go.uber.org/zap"
)

// CachedBookingProvider is a read-through cache in front of another BookingProvider.
// Cache failures are logged and fall back to the wrapped provider.
type CachedBookingProvider struct {
	next   ports.BookingProvider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedBookingProvider wraps next with c. A ttl of 0 disables expiry.
func NewCachedBookingProvider(next ports.BookingProvider, c cache.Cache, ttl time.Duration) *CachedBookingProvider {
	return &CachedBookingProvider{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("booking_cache"),
	}
}

func bookingKey(id string) string { return "booking:" + id }

// GetBooking returns the cached booking or fetches and stores it.
func (p *CachedBookingProvider) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	data, err := p.cache.Get(ctx, bookingKey(bookingID))
	switch {
	case err == nil:
		var b domain.Booking
		if jsonErr := json.Unmarshal(data, &b); jsonErr == nil {
			return &b, nil
		}
		p.logger.Warn("Discarding corrupt cached booking", zap.String("booking_id", bookingID))
	case !errors.Is(err, cache.ErrCacheMiss):
		p.logger.Warn("Booking cache read failed", zap.String("booking_id", bookingID), zap.Error(err))
	}

	b, err := p.next.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		if err := p.cache.Set(ctx, bookingKey(bookingID), data, p.ttl); err != nil {
			p.logger.Warn("Booking cache write failed", zap.String("booking_id", bookingID), zap.Error(err))
		}
	}

	return b, nil
}

// Invalidate drops the cached copy of a booking.
func (p *CachedBookingProvider) Invalidate(ctx context.Context, bookingID string) error {
	if err := p.cache.Delete(ctx, bookingKey(bookingID)); err != nil {
		return fmt.Errorf("failed to invalidate booking %s: %w", bookingID, err)
	}
	return nil
}
