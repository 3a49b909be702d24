package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"repair-tracker/internal/core/geo"
	bookingdomain "repair-tracker/internal/features/booking/domain"
	"repair-tracker/internal/features/tracking/domain"
	"repair-tracker/internal/features/tracking/routing"
	"repair-tracker/internal/features/tracking/service"
	"repair-tracker/internal/features/tracking/simulator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBookingProvider is a mock implementation of ports.BookingProvider.
type MockBookingProvider struct {
	mock.Mock
}

func (m *MockBookingProvider) GetBooking(ctx context.Context, bookingID string) (*bookingdomain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingdomain.Booking), args.Error(1)
}

func booking(id string, status bookingdomain.BookingStatus, withMechanic bool) *bookingdomain.Booking {
	dst := geo.Coordinate{Lat: 14.6091, Lng: 121.0223}
	b := &bookingdomain.Booking{ID: id, Status: status, Destination: &dst}
	if withMechanic {
		b.MechanicLocation = &geo.Coordinate{Lat: 14.5995, Lng: 120.9842}
	}
	return b
}

func setupApp(t *testing.T) (*fiber.App, *MockBookingProvider) {
	t.Helper()
	provider := new(MockBookingProvider)

	cfg := simulator.DefaultConfig()
	cfg.TickInterval = time.Hour
	svc, err := service.NewTrackingService(provider, service.Options{
		Defaults: service.Defaults{Simulator: cfg, Route: routing.DefaultOptions()},
		NewID:    func() string { return "session-1" },
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(svc.Shutdown)

	h := NewTrackingHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/tracking/sessions", h.OpenSession)
	app.Get("/tracking/sessions/:id", h.GetSession)
	app.Delete("/tracking/sessions/:id", h.CloseSession)

	return app, provider
}

type response struct {
	Code int
	Body []byte
}

func postJSON(t *testing.T, app *fiber.App, path, body string) response {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{Code: resp.StatusCode, Body: raw}
}

func decodeError(t *testing.T, rec response) ErrorResponse {
	t.Helper()
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body, &errResp))
	return errResp
}

// TestTrackingHandler_OpenSession_Success verifies a running session is returned with 201.
func TestTrackingHandler_OpenSession_Success(t *testing.T) {
	app, provider := setupApp(t)
	provider.On("GetBooking", mock.Anything, "bk-1").Return(booking("bk-1", bookingdomain.StatusEnRoute, true), nil)

	rec := postJSON(t, app, "/tracking/sessions", `{"booking_id":"bk-1"}`)
	assert.Equal(t, fiber.StatusCreated, rec.Code)

	var view domain.SessionView
	require.NoError(t, json.Unmarshal(rec.Body, &view))
	assert.Equal(t, "session-1", view.ID)
	assert.Equal(t, domain.SessionRunning, view.Status)
	require.NotNil(t, view.Map)
	assert.True(t, view.Map.Simulated)
	assert.NotEmpty(t, view.Display.Distance)
	assert.NotEmpty(t, view.Display.ETA)
}

func TestTrackingHandler_OpenSession_Unavailable(t *testing.T) {
	app, provider := setupApp(t)
	provider.On("GetBooking", mock.Anything, "bk-2").Return(booking("bk-2", bookingdomain.StatusEnRoute, false), nil)

	rec := postJSON(t, app, "/tracking/sessions", `{"booking_id":"bk-2"}`)
	assert.Equal(t, fiber.StatusCreated, rec.Code)

	var view domain.SessionView
	require.NoError(t, json.Unmarshal(rec.Body, &view))
	assert.Equal(t, domain.SessionUnavailable, view.Status)
	assert.Equal(t, "tracking unavailable", view.Message)
	assert.Nil(t, view.Map)
}

func TestTrackingHandler_OpenSession_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		booking  *bookingdomain.Booking
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "InvalidBody", body: `{`, wantCode: fiber.StatusBadRequest, wantMsg: "invalid request body"},
		{name: "MissingBookingID", body: `{}`, wantCode: fiber.StatusBadRequest, wantMsg: "booking_id is required"},
		{name: "BadDestination", body: `{"booking_id":"bk-1","destination":{"lat":95,"lng":0}}`, wantCode: fiber.StatusBadRequest, wantMsg: "destination is out of range"},
		{name: "NotFound", body: `{"booking_id":"bk-1"}`, err: fmt.Errorf("backend: %w", bookingdomain.ErrBookingNotFound), wantCode: fiber.StatusNotFound, wantMsg: "booking not found"},
		{name: "NotTrackable", body: `{"booking_id":"bk-1"}`, booking: booking("bk-1", bookingdomain.StatusBookingConfirmed, true), wantCode: fiber.StatusConflict, wantMsg: "booking is not en route"},
		{name: "BackendFailure", body: `{"booking_id":"bk-1"}`, err: fmt.Errorf("connection refused"), wantCode: fiber.StatusInternalServerError, wantMsg: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, provider := setupApp(t)
			if tt.booking != nil || tt.err != nil {
				var ret interface{}
				if tt.booking != nil {
					ret = tt.booking
				}
				provider.On("GetBooking", mock.Anything, "bk-1").Return(ret, tt.err)
			}

			rec := postJSON(t, app, "/tracking/sessions", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			errResp := decodeError(t, rec)
			assert.Contains(t, errResp.Message, tt.wantMsg)
			assert.Equal(t, "test-ray-id", errResp.RayID)
		})
	}
}

func TestTrackingHandler_GetSession(t *testing.T) {
	app, provider := setupApp(t)
	provider.On("GetBooking", mock.Anything, "bk-1").Return(booking("bk-1", bookingdomain.StatusEnRoute, true), nil)

	postJSON(t, app, "/tracking/sessions", `{"booking_id":"bk-1"}`)

	resp, err := app.Test(httptest.NewRequest("GET", "/tracking/sessions/session-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view domain.SessionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "bk-1", view.BookingID)
	assert.Equal(t, 2, view.Progress.StageIndex)
}

func TestTrackingHandler_GetSession_NotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/tracking/sessions/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "tracking session not found", errResp.Message)
}

func TestTrackingHandler_CloseSession(t *testing.T) {
	app, provider := setupApp(t)
	provider.On("GetBooking", mock.Anything, "bk-1").Return(booking("bk-1", bookingdomain.StatusEnRoute, true), nil)

	postJSON(t, app, "/tracking/sessions", `{"booking_id":"bk-1"}`)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/tracking/sessions/session-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/tracking/sessions/session-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
