package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"uniride/entity"
)

type createBookingRequest struct {
	TripID string `json:"trip_id"`
	Seats  int    `json:"seats"`
}

func (h handler) CreateBooking(c echo.Context) error {
	var request createBookingRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}

	bookingID, err := h.bookingService.BookSeats(
		c.Request().Context(), identityFrom(c), request.TripID, request.Seats)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"booking_id": bookingID})
}

func (h handler) ListMyBookings(c echo.Context) error {
	identity := identityFrom(c)
	if identity == nil {
		return httpError(entity.ErrUnauthorized)
	}

	bookings, err := h.bookingLister.ListForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return httpError(fmt.Errorf("listing bookings: %w", err))
	}

	return c.JSON(http.StatusOK, map[string]any{"bookings": bookings})
}
