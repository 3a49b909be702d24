// Package simulator advances a simulated mover along a route one tick at a
// time and keeps its remaining distance and ETA up to date.
package simulator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/features/tracking/domain"
)

// ErrInvalidConfig is returned when the simulator configuration is unusable.
var ErrInvalidConfig = errors.New("invalid simulator config")

// Phase is the lifecycle phase of a PositionSimulator.
type Phase string

const (
	// PhaseRunning accepts ticks.
	PhaseRunning Phase = "running"
	// PhaseArrived is terminal: the mover reached the destination.
	PhaseArrived Phase = "arrived"
	// PhaseCancelled is terminal: the owner stopped the simulation.
	PhaseCancelled Phase = "cancelled"
)

// Config holds the tunables of a simulation.
type Config struct {
	// TickInterval is how often the owning timer calls Tick.
	TickInterval time.Duration
	// SpeedKmh is the assumed average speed used for the ETA.
	SpeedKmh float64
	// ArrivalThresholdKm is the distance under which the mover counts as arrived.
	ArrivalThresholdKm float64
	// StepMode selects discrete jumps or interpolated movement.
	StepMode domain.StepMode
	// SpeedFraction is the share of the remaining segment covered per tick in interpolated mode.
	SpeedFraction float64
}

// DefaultConfig returns city-driving defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:       time.Second,
		SpeedKmh:           30,
		ArrivalThresholdKm: 0.05,
		StepMode:           domain.StepModeDiscrete,
		SpeedFraction:      0.15,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfig)
	case !(c.SpeedKmh > 0):
		return fmt.Errorf("%w: speed must be positive", ErrInvalidConfig)
	case !(c.ArrivalThresholdKm > 0):
		return fmt.Errorf("%w: arrival threshold must be positive", ErrInvalidConfig)
	case !c.StepMode.Valid():
		return fmt.Errorf("%w: unknown step mode %q", ErrInvalidConfig, c.StepMode)
	case c.StepMode == domain.StepModeInterpolated && !(c.SpeedFraction > 0 && c.SpeedFraction <= 1):
		return fmt.Errorf("%w: speed fraction must be in (0, 1]", ErrInvalidConfig)
	}
	return nil
}

// PositionSimulator moves along a Route. It is not safe for concurrent use;
// the owning session serialises access.
type PositionSimulator struct {
	route domain.Route
	cfg   Config
	phase Phase
	state domain.SimulationState
}

// New creates a simulator positioned at the start of route.
// A route that is already shorter than the arrival threshold starts arrived.
func New(route domain.Route, cfg Config) (*PositionSimulator, error) {
	if route.Len() < 2 {
		return nil, domain.ErrInvalidRoute
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &PositionSimulator{
		route: route,
		cfg:   cfg,
		phase: PhaseRunning,
	}

	remaining := route.LengthKm()
	s.state = domain.SimulationState{
		CurrentPosition:     route.Start(),
		WaypointIndex:       0,
		RemainingDistanceKm: remaining,
		EtaMinutes:          s.eta(remaining),
	}
	if remaining < cfg.ArrivalThresholdKm {
		s.arrive()
	}

	return s, nil
}

// Tick advances the simulation by one step. It never fails; calls after
// arrival or cancellation leave the state untouched.
func (s *PositionSimulator) Tick() domain.SimulationState {
	if s.phase != PhaseRunning {
		return s.state
	}

	switch s.cfg.StepMode {
	case domain.StepModeInterpolated:
		s.stepInterpolated()
	default:
		s.stepDiscrete()
	}

	remaining := s.route.RemainingKm(s.state.CurrentPosition, s.state.WaypointIndex+1)
	if remaining > s.state.RemainingDistanceKm {
		// Lat/lng interpolation is not exactly geodesic; never report moving backwards.
		remaining = s.state.RemainingDistanceKm
	}
	s.state.RemainingDistanceKm = remaining
	s.state.EtaMinutes = s.eta(remaining)

	if s.state.WaypointIndex >= s.route.LastIndex() || remaining < s.cfg.ArrivalThresholdKm {
		s.arrive()
	}

	return s.state
}

func (s *PositionSimulator) stepDiscrete() {
	s.state.WaypointIndex++
	s.state.CurrentPosition = s.route.At(s.state.WaypointIndex)
}

func (s *PositionSimulator) stepInterpolated() {
	next := s.route.At(s.state.WaypointIndex + 1)
	pos := geo.Lerp(s.state.CurrentPosition, next, s.cfg.SpeedFraction)

	if geo.DistanceKm(pos, next) < s.cfg.ArrivalThresholdKm {
		pos = next
		s.state.WaypointIndex++
	}
	s.state.CurrentPosition = pos
}

func (s *PositionSimulator) arrive() {
	s.phase = PhaseArrived
	s.state.CurrentPosition = s.route.End()
	s.state.RemainingDistanceKm = 0
	s.state.EtaMinutes = 0
	s.state.Arrived = true
}

func (s *PositionSimulator) eta(remainingKm float64) int {
	if remainingKm <= 0 {
		return 0
	}
	return int(math.Ceil(remainingKm / s.cfg.SpeedKmh * 60))
}

// Cancel stops the simulation. It is idempotent and keeps an arrived state as is.
func (s *PositionSimulator) Cancel() {
	if s.phase == PhaseRunning {
		s.phase = PhaseCancelled
	}
}

// State returns a snapshot of the current state.
func (s *PositionSimulator) State() domain.SimulationState { return s.state }

// Phase returns the lifecycle phase.
func (s *PositionSimulator) Phase() Phase { return s.phase }

// Done reports whether no further ticks will change the state.
func (s *PositionSimulator) Done() bool { return s.phase != PhaseRunning }

// Route returns the route being followed.
func (s *PositionSimulator) Route() domain.Route { return s.route }

// Config returns the configuration in use.
func (s *PositionSimulator) Config() Config { return s.cfg }
