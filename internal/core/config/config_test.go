package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_PORT",
	"BACKEND_URL", "BACKEND_API_KEY", "BACKEND_TIMEOUT_SECONDS",
	"REDIS_URL", "BOOKING_CACHE_TTL_SECONDS",
	"SIM_TICK_INTERVAL_MS", "SIM_SPEED_KMH", "SIM_ARRIVAL_THRESHOLD_KM",
	"SIM_STEP_MODE", "SIM_SPEED_FRACTION",
	"ROUTE_POINT_COUNT", "ROUTE_WOBBLE_FACTOR", "ROUTE_WOBBLE_CAP",
}

// clearEnv blanks every key; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://backend.test")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 15, cfg.Redis.BookingTTLSeconds)

	sim := cfg.Simulation
	assert.Equal(t, 1000, sim.TickIntervalMs)
	assert.Equal(t, 30.0, sim.SpeedKmh)
	assert.Equal(t, 0.05, sim.ArrivalThresholdKm)
	assert.Equal(t, "discrete", sim.StepMode)
	assert.Equal(t, 0.15, sim.SpeedFraction)
	assert.Equal(t, 20, sim.PointCount)
	assert.Equal(t, 0.0005, sim.WobbleFactor)
	assert.Equal(t, 0.002, sim.WobbleCap)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("BACKEND_API_KEY", "secret")
	t.Setenv("SIM_STEP_MODE", "interpolated")
	t.Setenv("SIM_SPEED_KMH", "40")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.Equal(t, "interpolated", cfg.Simulation.StepMode)
	assert.Equal(t, 40.0, cfg.Simulation.SpeedKmh)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
BACKEND_URL=https://staging.example.com
ROUTE_POINT_COUNT=12
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), content, 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, 12, cfg.Simulation.PointCount)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: BACKEND_URL")
}

func TestLoad_RangeValidation(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SIM_STEP_MODE", "teleport"},
		{"SIM_SPEED_KMH", "0"},
		{"SIM_SPEED_FRACTION", "1.5"},
		{"SIM_TICK_INTERVAL_MS", "10"},
		{"ROUTE_POINT_COUNT", "0"},
		{"SERVER_PORT", "70000"},
		{"BACKEND_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BACKEND_URL", "https://backend.test")
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(t.TempDir())
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration: "+tt.key)
		})
	}
}

// TestWatch_Reload verifies edits to the .env file reach the callback.
func TestWatch_Reload(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("BACKEND_URL=https://backend.test\nSIM_SPEED_KMH=30\n"), 0644))

	var (
		mu     sync.Mutex
		latest *AppConfig
		errs   []error
	)
	cfg, err := Watch(dir, func(c *AppConfig) {
		mu.Lock()
		defer mu.Unlock()
		latest = c
	}, func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Simulation.SpeedKmh)

	require.NoError(t, os.WriteFile(file, []byte("BACKEND_URL=https://backend.test\nSIM_SPEED_KMH=45\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Simulation.SpeedKmh == 45
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("BACKEND_URL=https://backend.test\nSIM_STEP_MODE=warp\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, err := range errs {
			if strings.Contains(err.Error(), "SIM_STEP_MODE") {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://backend.test")

	cfg, err := Watch(t.TempDir(), func(*AppConfig) { t.Fatal("unexpected reload") }, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
}
