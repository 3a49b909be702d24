package service

import (
	"time"

	"repair-tracker/internal/core/config"
	"repair-tracker/internal/features/tracking/domain"
	"repair-tracker/internal/features/tracking/routing"
	"repair-tracker/internal/features/tracking/simulator"
)

// DefaultsFromConfig converts the SIM_* and ROUTE_* settings.
func DefaultsFromConfig(c config.SimulationConfig) Defaults {
	return Defaults{
		Simulator: simulator.Config{
			TickInterval:       time.Duration(c.TickIntervalMs) * time.Millisecond,
			SpeedKmh:           c.SpeedKmh,
			ArrivalThresholdKm: c.ArrivalThresholdKm,
			StepMode:           domain.StepMode(c.StepMode),
			SpeedFraction:      c.SpeedFraction,
		},
		Route: routing.Options{
			PointCount:   c.PointCount,
			WobbleFactor: c.WobbleFactor,
			WobbleCap:    c.WobbleCap,
		},
	}
}
