package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/core/logger"
	bookingdomain "repair-tracker/internal/features/booking/domain"
	bookingports "repair-tracker/internal/features/booking/ports"
	"repair-tracker/internal/features/booking/timeline"
	"repair-tracker/internal/features/tracking/domain"
	"repair-tracker/internal/features/tracking/routing"
	"repair-tracker/internal/features/tracking/session"
	"repair-tracker/internal/features/tracking/simulator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned when no open session has the given ID.
	ErrSessionNotFound = errors.New("tracking session not found")
	// ErrNotTrackable is returned when the booking's status does not allow live tracking.
	ErrNotTrackable = errors.New("booking is not trackable")
	// ErrServiceClosed is returned by Open after Shutdown.
	ErrServiceClosed = errors.New("tracking service is shut down")
)

// Defaults are the simulation parameters applied to newly opened sessions.
type Defaults struct {
	Simulator simulator.Config
	Route     routing.Options
}

// Options configures a TrackingService. Zero values pick production behaviour.
type Options struct {
	Defaults Defaults
	// Invalidator drops cached bookings on status changes; may be nil.
	Invalidator bookingports.BookingInvalidator
	// NewTicker overrides the session timer, used by tests.
	NewTicker session.TickerFunc
	// NewRand returns the randomness for one route; nil results seed a fresh generator.
	NewRand func() routing.RandSource
	// NewID generates session IDs; defaults to random UUIDs.
	NewID  func() string
	Logger *zap.Logger
}

type entry struct {
	sess    *session.Session
	booking *bookingdomain.Booking
}

// TrackingService keeps the registry of open tracking sessions and keeps them
// in sync with booking status.
type TrackingService struct {
	bookings    bookingports.BookingProvider
	invalidator bookingports.BookingInvalidator
	newTicker   session.TickerFunc
	newRand     func() routing.RandSource
	newID       func() string
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
	defaults Defaults
	synth    *routing.Synthesizer
	closed   bool
}

// NewTrackingService creates a new TrackingService reading bookings from provider.
func NewTrackingService(provider bookingports.BookingProvider, opts Options) (*TrackingService, error) {
	if err := opts.Defaults.Simulator.Validate(); err != nil {
		return nil, err
	}
	if opts.NewTicker == nil {
		opts.NewTicker = session.NewTimeTicker
	}
	if opts.NewRand == nil {
		opts.NewRand = func() routing.RandSource { return nil }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("tracking")
	}

	return &TrackingService{
		bookings:    provider,
		invalidator: opts.Invalidator,
		newTicker:   opts.NewTicker,
		newRand:     opts.NewRand,
		newID:       opts.NewID,
		logger:      opts.Logger,
		sessions:    make(map[string]*entry),
		defaults:    opts.Defaults,
		synth:       routing.NewSynthesizer(opts.Defaults.Route),
	}, nil
}

// Open fetches the booking and starts a tracking session for it. Missing
// coordinates yield a view with status unavailable rather than an error.
func (s *TrackingService) Open(ctx context.Context, bookingID string, destination *geo.Coordinate) (*domain.SessionView, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if !timeline.IsTrackable(b.Status) {
		return nil, fmt.Errorf("%w: status %q", ErrNotTrackable, b.Status)
	}

	if destination == nil {
		destination = b.Destination
	}

	s.mu.RLock()
	defaults, synth := s.defaults, s.synth
	s.mu.RUnlock()

	sess := session.New(s.newID(), b.ID, session.Options{
		Simulator:   defaults.Simulator,
		Synthesizer: synth,
		Rand:        s.newRand(),
		NewTicker:   s.newTicker,
		Logger:      s.logger,
	})
	if err := sess.Start(b.MechanicLocation, destination); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sess.Stop()
		return nil, ErrServiceClosed
	}
	e := &entry{sess: sess, booking: b}
	s.sessions[sess.ID()] = e
	s.mu.Unlock()

	return buildView(sess.Snapshot(), b), nil
}

// Get returns the session's current view. The booking is re-read first and the
// session is stopped if the booking left the trackable statuses. A failed
// re-read is logged and the last known booking is used.
func (s *TrackingService) Get(ctx context.Context, sessionID string) (*domain.SessionView, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	var b *bookingdomain.Booking
	if ok {
		b = e.booking
	}
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	fresh, err := s.bookings.GetBooking(ctx, e.sess.BookingID())
	if err != nil {
		s.logger.Warn("Failed to refresh booking, using last known status",
			zap.String("session_id", sessionID),
			zap.String("booking_id", e.sess.BookingID()),
			zap.Error(err),
		)
	} else {
		b = fresh
		s.mu.Lock()
		e.booking = fresh
		s.mu.Unlock()
	}

	if !timeline.IsTrackable(b.Status) {
		e.sess.Stop()
	}

	return buildView(e.sess.Snapshot(), b), nil
}

// Close stops the session and removes it from the registry.
func (s *TrackingService) Close(sessionID string) error {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.sess.Stop()
	return nil
}

// HandleStatusChange invalidates the cached booking and stops every session of
// the booking when status is no longer trackable. Stopped sessions stay
// registered so their last view can still be read.
func (s *TrackingService) HandleStatusChange(ctx context.Context, bookingID string, status bookingdomain.BookingStatus) int {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, bookingID); err != nil {
			s.logger.Warn("Failed to invalidate cached booking",
				zap.String("booking_id", bookingID),
				zap.Error(err),
			)
		}
	}

	var affected []*session.Session
	s.mu.Lock()
	for _, e := range s.sessions {
		if e.sess.BookingID() != bookingID {
			continue
		}
		updated := *e.booking
		updated.Status = status
		e.booking = &updated
		affected = append(affected, e.sess)
	}
	s.mu.Unlock()

	if timeline.IsTrackable(status) {
		return 0
	}

	stopped := 0
	for _, sess := range affected {
		if sess.Status() == session.StatusRunning {
			stopped++
		}
		sess.Stop()
	}
	if stopped > 0 {
		s.logger.Info("Stopped tracking after status change",
			zap.String("booking_id", bookingID),
			zap.String("status", string(status)),
			zap.Int("sessions", stopped),
		)
	}
	return stopped
}

// UpdateDefaults replaces the parameters used by sessions opened from now on.
// Running sessions keep their configuration.
func (s *TrackingService) UpdateDefaults(d Defaults) error {
	if err := d.Simulator.Validate(); err != nil {
		return err
	}
	synth := routing.NewSynthesizer(d.Route)

	s.mu.Lock()
	s.defaults = d
	s.synth = synth
	s.mu.Unlock()

	s.logger.Info("Simulation defaults updated",
		zap.Duration("tick_interval", d.Simulator.TickInterval),
		zap.Float64("speed_kmh", d.Simulator.SpeedKmh),
		zap.String("step_mode", string(d.Simulator.StepMode)),
		zap.Int("point_count", synth.Options().PointCount),
	)
	return nil
}

// Defaults returns the parameters currently applied to new sessions.
func (s *TrackingService) Defaults() Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// Len returns the number of registered sessions.
func (s *TrackingService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown stops every session and rejects further Open calls.
func (s *TrackingService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	all := make([]*session.Session, 0, len(s.sessions))
	for id, e := range s.sessions {
		all = append(all, e.sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, sess := range all {
		wg.Add(1)
		go func(sess *session.Session) {
			defer wg.Done()
			sess.Stop()
		}(sess)
	}
	wg.Wait()

	s.logger.Info("Tracking service shut down", zap.Int("sessions", len(all)))
}

func buildView(snap session.Snapshot, b *bookingdomain.Booking) *domain.SessionView {
	v := &domain.SessionView{
		ID:        snap.ID,
		BookingID: snap.BookingID,
		Status:    snap.Status,
		Progress:  timeline.BuildProgress(b.Status, b.StatusHistory),
		Service:   b.Service,
		StartedAt: snap.StartedAt,
	}

	if snap.Status == session.StatusUnavailable {
		v.Message = session.UnavailableMessage
		return v
	}
	if snap.State == nil {
		return v
	}

	st := *snap.State
	v.State = &st
	v.Display = &domain.DisplayText{
		Distance: geo.FormatDistance(st.RemainingDistanceKm),
		ETA:      geo.FormatETA(st.EtaMinutes),
	}
	v.Map = &domain.MapView{
		Route:             snap.Route,
		CurrentPosition:   st.CurrentPosition,
		SourceMarker:      *snap.Source,
		DestinationMarker: *snap.Destination,
		Simulated:         true,
	}
	return v
}
