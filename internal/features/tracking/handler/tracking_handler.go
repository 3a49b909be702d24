package handler

import (
	"errors"

	"repair-tracker/internal/core/geo"
	"repair-tracker/internal/core/logger"
	bookingdomain "repair-tracker/internal/features/booking/domain"
	"repair-tracker/internal/features/tracking/ports"
	"repair-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for live tracking sessions.
type TrackingHandler struct {
	trackingService ports.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// OpenSessionRequest is the body of POST /tracking/sessions.
type OpenSessionRequest struct {
	BookingID string `json:"booking_id"`
	// Destination overrides the booking's service address.
	Destination *geo.Coordinate `json:"destination,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   rayID(c),
	})
}

// OpenSession godoc
// @Summary Open a live tracking session
// @Description Starts a simulated mechanic position feed for an en-route booking. When a coordinate is missing the session is returned with status "unavailable".
// @Tags tracking
// @Accept json
// @Produce json
// @Param request body OpenSessionRequest true "Booking and optional destination"
// @Success 201 {object} domain.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /tracking/sessions [post]
func (h *TrackingHandler) OpenSession(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.BookingID == "" {
		return fail(c, fiber.StatusBadRequest, "booking_id is required")
	}
	if req.Destination != nil && !req.Destination.Valid() {
		return fail(c, fiber.StatusBadRequest, "destination is out of range")
	}

	view, err := h.trackingService.Open(c.UserContext(), req.BookingID, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, bookingdomain.ErrBookingNotFound):
			return fail(c, fiber.StatusNotFound, "booking not found")
		case errors.Is(err, service.ErrNotTrackable):
			return fail(c, fiber.StatusConflict, "booking is not en route")
		case errors.Is(err, service.ErrServiceClosed):
			return fail(c, fiber.StatusServiceUnavailable, "service is shutting down")
		}
		logger.Get().Error("Failed to open tracking session",
			zap.String("booking_id", req.BookingID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetSession godoc
// @Summary Get a tracking session
// @Description Returns the simulated position, display text, map view and booking progress. Polled by the client.
// @Tags tracking
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /tracking/sessions/{id} [get]
func (h *TrackingHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.trackingService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fail(c, fiber.StatusNotFound, "tracking session not found")
		}
		logger.Get().Error("Failed to get tracking session", zap.String("ray_id", rayID(c)), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(view)
}

// CloseSession godoc
// @Summary Close a tracking session
// @Description Stops the simulation when the tracking view is torn down.
// @Tags tracking
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /tracking/sessions/{id} [delete]
func (h *TrackingHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.trackingService.Close(c.Params("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fail(c, fiber.StatusNotFound, "tracking session not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
