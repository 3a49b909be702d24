package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/core/httpclient"
	"repair-tracker/internal/core/logger"
	"repair-tracker/internal/features/booking/domain"

	"go.uber.org/zap"
)

// BackendConfig holds the connection details of the booking backend.
type BackendConfig struct {
	// URL is the base URL of the backend REST API.
	URL string
	// APIKey is sent as a bearer token.
	APIKey string
	// Timeout bounds every request.
	Timeout time.Duration
}

// BackendAdapter implements ports.BookingProvider against the backend REST API.
type BackendAdapter struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewBackendAdapter creates a BackendAdapter.
func NewBackendAdapter(cfg BackendConfig) *BackendAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendAdapter{
		client:  httpclient.NewClient(timeout, httpclient.WithBearerToken(cfg.APIKey)),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		logger:  logger.Named("booking_backend"),
	}
}

type backendLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type backendBooking struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	StatusHistory []struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"status_history"`
	MechanicLocation *backendLocation `json:"mechanic_location"`
	Destination      *backendLocation `json:"destination"`
	Service          struct {
		Name    string `json:"name"`
		Vehicle string `json:"vehicle"`
		Notes   string `json:"notes"`
	} `json:"service"`
}

// GetBooking fetches a booking and maps it to the domain entity.
func (a *BackendAdapter) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	endpoint := fmt.Sprintf("%s/bookings/%s", a.baseURL, url.PathEscape(bookingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	default:
		return nil, fmt.Errorf("booking backend returned status: %d", resp.StatusCode)
	}

	var raw backendBooking
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return a.mapToDomain(raw), nil
}

// HealthCheck verifies that the backend is reachable and accepts the API key.
func (a *BackendAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("health check rejected credentials: %d", resp.StatusCode)
	default:
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
}

// mapToDomain converts the backend payload into a domain Booking.
func (a *BackendAdapter) mapToDomain(raw backendBooking) *domain.Booking {
	b := &domain.Booking{
		ID:               raw.ID,
		Status:           a.mapStatus(raw.ID, raw.Status),
		StatusHistory:    make([]domain.TimelineEntry, 0, len(raw.StatusHistory)),
		MechanicLocation: mapLocation(raw.MechanicLocation),
		Destination:      mapLocation(raw.Destination),
		Service: domain.ServiceInfo{
			Name:    raw.Service.Name,
			Vehicle: raw.Service.Vehicle,
			Notes:   raw.Service.Notes,
		},
	}

	for _, h := range raw.StatusHistory {
		b.StatusHistory = append(b.StatusHistory, domain.TimelineEntry{
			Status:    a.mapStatus(raw.ID, h.Status),
			Timestamp: h.Timestamp,
		})
	}

	return b
}

// mapStatus normalises a backend status. Unknown values are kept verbatim so
// they simply never match a milestone.
func (a *BackendAdapter) mapStatus(bookingID, raw string) domain.BookingStatus {
	if s, ok := domain.ParseStatus(raw); ok {
		return s
	}
	a.logger.Warn("Unknown booking status encountered",
		zap.String("booking_id", bookingID),
		zap.String("status", raw),
	)
	return domain.BookingStatus(raw)
}

// mapLocation treats a missing or partial location as absent.
func mapLocation(l *backendLocation) *geo.Coordinate {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return nil
	}
	c := geo.Coordinate{Lat: *l.Lat, Lng: *l.Lng}
	if !c.Valid() {
		return nil
	}
	return &c
}
