package routing

import (
	"math"
	"math/rand/v2"
	"testing"

	"repair-tracker/internal/core/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = geo.Coordinate{Lat: 14.5995, Lng: 120.9842}
	end   = geo.Coordinate{Lat: 14.6091, Lng: 121.0223}
)

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// TestGenerate_LengthAndEndpoints verifies n+1 points with exact endpoints.
func TestGenerate_LengthAndEndpoints(t *testing.T) {
	for _, n := range []int{1, 2, 15, 20, 50} {
		route := Generate(start, end, n, seeded(7), DefaultOptions())

		require.Equal(t, n+1, route.Len(), "pointCount %d", n)
		assert.Equal(t, start, route.Start())
		assert.Equal(t, end, route.End())
	}
}

// TestGenerate_NonPositivePointCount verifies values below 1 behave like 1.
func TestGenerate_NonPositivePointCount(t *testing.T) {
	route := Generate(start, end, 0, seeded(1), DefaultOptions())
	require.Equal(t, 2, route.Len())
	assert.Equal(t, start, route.At(0))
	assert.Equal(t, end, route.At(1))
}

// TestGenerate_OffsetBounded verifies every intermediate point stays within the wobble bound.
func TestGenerate_OffsetBounded(t *testing.T) {
	opts := DefaultOptions()
	n := 20
	wobble := math.Min(geo.DistanceKm(start, end)*opts.WobbleFactor, opts.WobbleCap)

	route := Generate(start, end, n, seeded(42), opts)
	for i := 1; i < n; i++ {
		base := geo.Lerp(start, end, float64(i)/float64(n))
		p := route.At(i)
		assert.LessOrEqual(t, math.Abs(p.Lat-base.Lat), wobble+1e-12, "lat offset at %d", i)
		assert.LessOrEqual(t, math.Abs(p.Lng-base.Lng), wobble+1e-12, "lng offset at %d", i)
	}
}

// TestGenerate_CapApplies verifies the cap bounds the wobble on long routes.
func TestGenerate_CapApplies(t *testing.T) {
	opts := Options{PointCount: 10, WobbleFactor: 1, WobbleCap: 0.001}
	far := geo.Coordinate{Lat: 15.5, Lng: 121.5}

	route := Generate(start, far, 10, fixedRand(0.999999), opts)
	for i := 1; i < 10; i++ {
		base := geo.Lerp(start, far, float64(i)/10)
		assert.LessOrEqual(t, math.Abs(route.At(i).Lat-base.Lat), 0.001+1e-12)
	}
}

// TestGenerate_Deterministic verifies the same seed yields the same route.
func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(start, end, 20, seeded(99), DefaultOptions())
	b := Generate(start, end, 20, seeded(99), DefaultOptions())
	assert.Equal(t, a.Points(), b.Points())

	c := Generate(start, end, 20, seeded(100), DefaultOptions())
	assert.NotEqual(t, a.Points(), c.Points())
}

// TestGenerate_Degenerate verifies start == end yields a zero-length route.
func TestGenerate_Degenerate(t *testing.T) {
	route := Generate(start, start, 20, seeded(3), DefaultOptions())

	require.Equal(t, 21, route.Len())
	for _, p := range route.Points() {
		assert.Equal(t, start, p)
	}
	assert.Equal(t, 0.0, route.LengthKm())
}

// TestGenerate_MidpointNoise verifies the rng actually perturbs the path.
func TestGenerate_MidpointNoise(t *testing.T) {
	route := Generate(start, end, 2, fixedRand(1), DefaultOptions())
	mid := geo.Lerp(start, end, 0.5)
	assert.NotEqual(t, mid, route.At(1))

	straight := Generate(start, end, 2, fixedRand(0.5), DefaultOptions())
	assert.InDelta(t, mid.Lat, straight.At(1).Lat, 1e-12)
	assert.InDelta(t, mid.Lng, straight.At(1).Lng, 1e-12)
}

func TestSynthesizer_Defaults(t *testing.T) {
	s := NewSynthesizer(Options{})
	assert.Equal(t, DefaultPointCount, s.Options().PointCount)

	route := s.Route(start, end, seeded(5))
	assert.Equal(t, DefaultPointCount+1, route.Len())
}
