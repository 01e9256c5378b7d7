// Package clients holds HTTP clients for collaborator services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotificationsClient talks to the notifications collaborator, which
// delivers booking confirmations to the customer.
type NotificationsClient struct {
	addr   string
	client *http.Client
}

func NewNotificationsClient(addr string) NotificationsClient {
	return NotificationsClient{
		addr: addr,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type bookingConfirmationRequest struct {
	BookingID  string `json:"booking_id"`
	UserID     string `json:"user_id"`
	TripID     string `json:"trip_id"`
	Seats      int    `json:"seats"`
	AmountPaid int    `json:"amount_paid"`
}

func (c NotificationsClient) SendBookingConfirmation(ctx context.Context, bookingID, userID, tripID string, seats, amountPaid int) error {
	body, err := json.Marshal(bookingConfirmationRequest{
		BookingID:  bookingID,
		UserID:     userID,
		TripID:     tripID,
		Seats:      seats,
		AmountPaid: amountPaid,
	})
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/booking-confirmations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending booking confirmation: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	return nil
}
