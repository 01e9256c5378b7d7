package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"uniride/realtime"
)

// subscriberBuffer bounds how far an observer may lag before updates
// are dropped for it.
const subscriberBuffer = 16

// StreamTripAvailability is the real-time channel: a server-sent event
// stream of {trip_id, available_seats} emitted whenever a reservation
// commits on the trip. The subscription is removed when the connection
// closes.
func (h handler) StreamTripAvailability(c echo.Context) error {
	trip, err := h.trips.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	sub := h.hub.NewSubscriber(subscriberBuffer)
	h.hub.Subscribe(sub, trip.TripID)
	defer h.hub.Unsubscribe(sub)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	// Snapshot first, so the client renders current availability
	// without waiting for the next booking.
	snapshot := realtime.Update{
		TripID:         trip.TripID,
		AvailableSeats: trip.AvailableSeats(),
	}
	if err := writeEvent(res, snapshot); err != nil {
		return err
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := writeEvent(res, update); err != nil {
				return err
			}
		}
	}
}

func writeEvent(res *echo.Response, update realtime.Update) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshalling update: %w", err)
	}

	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	res.Flush()

	return nil
}
