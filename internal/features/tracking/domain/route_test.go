package domain

import (
	"testing"

	"repair-tracker/internal/core/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoute_TooShort(t *testing.T) {
	_, err := NewRoute(nil)
	assert.ErrorIs(t, err, ErrInvalidRoute)

	_, err = NewRoute([]geo.Coordinate{{Lat: 1, Lng: 1}})
	assert.ErrorIs(t, err, ErrInvalidRoute)
}

func TestNewRoute_CopiesInput(t *testing.T) {
	points := []geo.Coordinate{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}
	r, err := NewRoute(points)
	require.NoError(t, err)

	points[0] = geo.Coordinate{Lat: 50, Lng: 50}
	assert.Equal(t, geo.Coordinate{}, r.Start())

	out := r.Points()
	out[1] = geo.Coordinate{Lat: 9, Lng: 9}
	assert.Equal(t, geo.Coordinate{Lat: 0, Lng: 1}, r.End())
}

func TestRoute_RemainingKm(t *testing.T) {
	a := geo.Coordinate{Lat: 0, Lng: 0}
	b := geo.Coordinate{Lat: 0, Lng: 1}
	c := geo.Coordinate{Lat: 0, Lng: 2}
	r, err := NewRoute([]geo.Coordinate{a, b, c})
	require.NoError(t, err)

	assert.InDelta(t, r.LengthKm(), r.RemainingKm(a, 1), 1e-9)
	assert.InDelta(t, geo.DistanceKm(b, c), r.RemainingKm(b, 2), 1e-9)
	assert.Equal(t, 0.0, r.RemainingKm(c, 3))
	assert.Equal(t, 2, r.LastIndex())
}

func TestStepMode_Valid(t *testing.T) {
	assert.True(t, StepModeDiscrete.Valid())
	assert.True(t, StepModeInterpolated.Valid())
	assert.False(t, StepMode("teleport").Valid())
}
