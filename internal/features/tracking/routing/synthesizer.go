// Package routing synthesizes plausible but fictional travel paths between
// two coordinates. The output is never a real driving route.
package routing

import (
	"math"
	"math/rand/v2"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/features/tracking/domain"
)

const (
	// DefaultPointCount is the number of route segments generated when none is configured.
	DefaultPointCount = 20
	// DefaultWobbleFactor scales total distance (km) into a lateral offset in degrees.
	DefaultWobbleFactor = 0.0005
	// DefaultWobbleCap bounds the lateral offset in degrees.
	DefaultWobbleCap = 0.002
)

// RandSource yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Options configures the synthesizer.
type Options struct {
	// PointCount is the number of segments; the route has PointCount+1 points.
	PointCount int
	// WobbleFactor multiplies the start-end distance in km to get the offset bound.
	WobbleFactor float64
	// WobbleCap is the upper bound of the offset in degrees.
	WobbleCap float64
}

// DefaultOptions returns the built-in synthesizer constants.
func DefaultOptions() Options {
	return Options{
		PointCount:   DefaultPointCount,
		WobbleFactor: DefaultWobbleFactor,
		WobbleCap:    DefaultWobbleCap,
	}
}

// Synthesizer builds winding routes.
type Synthesizer struct {
	opts Options
}

// NewSynthesizer creates a Synthesizer. Non-positive values fall back to defaults.
func NewSynthesizer(opts Options) *Synthesizer {
	def := DefaultOptions()
	if opts.PointCount < 1 {
		opts.PointCount = def.PointCount
	}
	if opts.WobbleFactor < 0 {
		opts.WobbleFactor = def.WobbleFactor
	}
	if opts.WobbleCap < 0 {
		opts.WobbleCap = def.WobbleCap
	}
	return &Synthesizer{opts: opts}
}

// Options returns the configuration in use.
func (s *Synthesizer) Options() Options { return s.opts }

// Route generates a route with the configured point count.
func (s *Synthesizer) Route(start, end geo.Coordinate, rng RandSource) domain.Route {
	return Generate(start, end, s.opts.PointCount, rng, s.opts)
}

// Generate returns pointCount+1 waypoints from start to end. Intermediate points
// sit on the straight line at i/pointCount plus a random offset bounded by
// min(distance*WobbleFactor, WobbleCap) in each axis, tapering to zero at the
// ends. The first and last points are start and end, unperturbed.
func Generate(start, end geo.Coordinate, pointCount int, rng RandSource, opts Options) domain.Route {
	if pointCount < 1 {
		pointCount = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	total := geo.DistanceKm(start, end)
	wobble := math.Min(total*opts.WobbleFactor, opts.WobbleCap)

	points := make([]geo.Coordinate, 0, pointCount+1)
	points = append(points, start)

	for i := 1; i < pointCount; i++ {
		f := float64(i) / float64(pointCount)
		p := geo.Lerp(start, end, f)

		// sin(pi*f) is 0 at the ends and 1 midway, keeping the bound at wobble.
		taper := math.Sin(math.Pi * f)
		p.Lat += (rng.Float64()*2 - 1) * wobble * taper
		p.Lng += (rng.Float64()*2 - 1) * wobble * taper

		points = append(points, p)
	}

	points = append(points, end)

	// len(points) >= 2 always holds here.
	route, _ := domain.NewRoute(points)
	return route
}
