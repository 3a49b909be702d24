// Package session ties one synthesized route, one position simulator and one
// ticker together for a single open tracking view.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/core/logger"
	"repair-tracker/internal/features/tracking/domain"
	"repair-tracker/internal/features/tracking/routing"
	"repair-tracker/internal/features/tracking/simulator"

	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned when Start is called on a session that was already started or stopped.
var ErrAlreadyStarted = errors.New("tracking session already started")

// Status is the lifecycle status of a Session.
type Status = domain.SessionStatus

const (
	// StatusIdle means Start has not been called yet.
	StatusIdle = domain.SessionIdle
	// StatusUnavailable means a coordinate was missing; there is no route and no timer.
	StatusUnavailable = domain.SessionUnavailable
	// StatusRunning means the timer is driving the simulator.
	StatusRunning = domain.SessionRunning
	// StatusArrived means the simulated mover reached the destination.
	StatusArrived = domain.SessionArrived
	// StatusStopped means Stop was called before arrival.
	StatusStopped = domain.SessionStopped
)

// UnavailableMessage is shown to users when tracking cannot start.
const UnavailableMessage = "tracking unavailable"

// Ticker is the subset of time.Ticker a session needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Options configures a Session.
type Options struct {
	// Simulator is the configuration handed to the position simulator.
	Simulator simulator.Config
	// Synthesizer builds the route; defaults to routing.DefaultOptions.
	Synthesizer *routing.Synthesizer
	// Rand feeds the synthesizer; nil picks a fresh random seed.
	Rand routing.RandSource
	// NewTicker creates the repeating timer; defaults to NewTimeTicker.
	NewTicker TickerFunc
	// Logger defaults to the global logger.
	Logger *zap.Logger
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID          string                  `json:"id"`
	BookingID   string                  `json:"booking_id"`
	Status      Status                  `json:"status"`
	State       *domain.SimulationState `json:"state,omitempty"`
	Route       []geo.Coordinate        `json:"route,omitempty"`
	Source      *geo.Coordinate         `json:"source,omitempty"`
	Destination *geo.Coordinate         `json:"destination,omitempty"`
	StartedAt   time.Time               `json:"started_at,omitempty"`
}

// Session owns the simulator and its timer for one tracking view.
type Session struct {
	id        string
	bookingID string
	opts      Options
	logger    *zap.Logger

	mu          sync.Mutex
	status      Status
	sim         *simulator.PositionSimulator
	source      *geo.Coordinate
	destination *geo.Coordinate
	startedAt   time.Time

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an idle session.
func New(id, bookingID string, opts Options) *Session {
	if opts.Synthesizer == nil {
		opts.Synthesizer = routing.NewSynthesizer(routing.DefaultOptions())
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}

	return &Session{
		id:        id,
		bookingID: bookingID,
		opts:      opts,
		status:    StatusIdle,
		logger: opts.Logger.With(
			zap.String("session_id", id),
			zap.String("booking_id", bookingID),
		),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// BookingID returns the booking the session is bound to.
func (s *Session) BookingID() string { return s.bookingID }

// Start builds the route and starts the timer. A nil or invalid coordinate
// puts the session in StatusUnavailable without error. Construction failures
// such as domain.ErrInvalidRoute are returned to the caller.
func (s *Session) Start(mechanic, destination *geo.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusIdle {
		return ErrAlreadyStarted
	}

	if mechanic == nil || destination == nil || !mechanic.Valid() || !destination.Valid() {
		s.status = StatusUnavailable
		s.logger.Info("Tracking unavailable: missing coordinates",
			zap.Bool("has_mechanic", mechanic != nil),
			zap.Bool("has_destination", destination != nil),
		)
		return nil
	}

	src, dst := *mechanic, *destination
	route := s.opts.Synthesizer.Route(src, dst, s.opts.Rand)

	sim, err := simulator.New(route, s.opts.Simulator)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	s.sim = sim
	s.source = &src
	s.destination = &dst
	s.startedAt = time.Now()

	if sim.Done() {
		s.status = StatusArrived
		s.logger.Info("Mechanic already at destination")
		return nil
	}

	s.status = StatusRunning
	s.quit = make(chan struct{})
	s.done = make(chan struct{})

	ticker := s.opts.NewTicker(s.opts.Simulator.TickInterval)
	go s.run(ticker, s.quit, s.done)

	st := sim.State()
	s.logger.Info("Tracking session started",
		zap.Int("waypoints", route.Len()),
		zap.Float64("distance_km", st.RemainingDistanceKm),
		zap.Int("eta_minutes", st.EtaMinutes),
		zap.String("step_mode", string(s.opts.Simulator.StepMode)),
	)
	return nil
}

func (s *Session) run(ticker Ticker, quit, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C():
			if finished := s.step(quit); finished {
				return
			}
		}
	}
}

// step applies one tick and reports whether the loop should exit.
func (s *Session) step(quit chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-quit:
		return true
	default:
	}

	if s.sim.Done() {
		return true
	}

	st := s.sim.Tick()
	s.logger.Debug("Tick",
		zap.Int("waypoint_index", st.WaypointIndex),
		zap.Float64("remaining_km", st.RemainingDistanceKm),
		zap.Int("eta_minutes", st.EtaMinutes),
	)

	if st.Arrived {
		s.status = StatusArrived
		s.logger.Info("Mechanic arrived")
		return true
	}
	return false
}

// Stop cancels the simulator and the timer. It is idempotent and a no-op for
// unavailable sessions. Once Stop returns no further tick is applied.
func (s *Session) Stop() {
	s.mu.Lock()
	quit, done := s.quit, s.done
	if s.sim != nil {
		s.sim.Cancel()
	}
	switch s.status {
	case StatusIdle, StatusRunning:
		s.status = StatusStopped
		s.logger.Info("Tracking session stopped")
	}
	s.mu.Unlock()

	if quit == nil {
		return
	}
	s.stopOnce.Do(func() { close(quit) })
	<-done
}

// Status returns the lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Done returns a channel closed when the timer loop exits, or nil if no timer was started.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		BookingID: s.bookingID,
		Status:    s.status,
		StartedAt: s.startedAt,
	}
	if s.source != nil {
		src := *s.source
		snap.Source = &src
	}
	if s.destination != nil {
		dst := *s.destination
		snap.Destination = &dst
	}
	if s.sim != nil {
		st := s.sim.State()
		snap.State = &st
		snap.Route = s.sim.Route().Points()
	}
	return snap
}
