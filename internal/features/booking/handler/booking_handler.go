package handler

import (
	"errors"

	"repair-tracker/internal/core/logger"
	"repair-tracker/internal/features/booking/domain"
	"repair-tracker/internal/features/booking/ports"
	"repair-tracker/internal/features/booking/timeline"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BookingHandler handles HTTP requests for booking progress and status webhooks.
type BookingHandler struct {
	bookings ports.BookingProvider
	listener ports.StatusChangeListener
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings ports.BookingProvider, listener ports.StatusChangeListener) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		listener: listener,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

// TimelineResponse is the progress of one booking.
type TimelineResponse struct {
	BookingID string                 `json:"booking_id"`
	Progress  timeline.Progress      `json:"progress"`
	History   []domain.TimelineEntry `json:"history"`
}

// StatusChangeRequest is the body of the status webhook.
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// StatusChangeResponse acknowledges a status webhook.
type StatusChangeResponse struct {
	BookingID       string               `json:"booking_id"`
	Status          domain.BookingStatus `json:"status"`
	StoppedSessions int                  `json:"stopped_sessions"`
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// GetTimeline godoc
// @Summary Get booking progress
// @Description Places the booking on the milestone timeline, or on the cancelled / reschedule branch.
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} TimelineResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /bookings/{id}/timeline [get]
func (h *BookingHandler) GetTimeline(c *fiber.Ctx) error {
	id := c.Params("id")

	b, err := h.bookings.GetBooking(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "booking not found",
				RayID:   rayID(c),
			})
		}
		logger.Get().Error("Failed to get booking", zap.String("booking_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	history := b.StatusHistory
	if history == nil {
		history = []domain.TimelineEntry{}
	}

	return c.JSON(TimelineResponse{
		BookingID: b.ID,
		Progress:  timeline.BuildProgress(b.Status, b.StatusHistory),
		History:   history,
	})
}

// UpdateStatus godoc
// @Summary Booking status webhook
// @Description Called by the backend when a booking changes status. Drops the cached booking and stops live tracking once the booking leaves En Route / In Progress.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body StatusChangeRequest true "New status"
// @Success 200 {object} StatusChangeResponse
// @Failure 400 {object} ErrorResponse
// @Router /bookings/{id}/status [post]
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "unknown status: " + req.Status,
			RayID:   rayID(c),
		})
	}

	id := c.Params("id")
	stopped := h.listener.HandleStatusChange(c.UserContext(), id, status)

	logger.Get().Info("Booking status changed",
		zap.String("booking_id", id),
		zap.String("status", string(status)),
		zap.Int("stopped_sessions", stopped),
	)

	return c.JSON(StatusChangeResponse{
		BookingID:       id,
		Status:          status,
		StoppedSessions: stopped,
	})
}
