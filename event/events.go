package event

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"uniride/entity"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// BookingMade is published in the same transaction that stores the
// booking record.
type BookingMade struct {
	Header     header `json:"header"`
	BookingID  string `json:"booking_id"`
	TripID     string `json:"trip_id"`
	UserID     string `json:"user_id"`
	Seats      int    `json:"seats"`
	AmountPaid int    `json:"amount_paid"`
}

func NewBookingMade(idempotencyKey string, booking entity.Booking) BookingMade {
	return BookingMade{
		Header:     newHeader(idempotencyKey),
		BookingID:  booking.BookingID,
		TripID:     booking.TripID,
		UserID:     booking.UserID,
		Seats:      booking.Seats,
		AmountPaid: booking.AmountPaid,
	}
}

// TripAvailabilityChanged carries the trip's availability after a
// committed reservation. Events for one trip are forwarded in commit
// order, which is what gives observers in-order notifications.
type TripAvailabilityChanged struct {
	Header         header `json:"header"`
	TripID         string `json:"trip_id"`
	AvailableSeats int    `json:"available_seats"`
}

func NewTripAvailabilityChanged(idempotencyKey, tripID string, availableSeats int) TripAvailabilityChanged {
	return TripAvailabilityChanged{
		Header:         newHeader(idempotencyKey),
		TripID:         tripID,
		AvailableSeats: availableSeats,
	}
}
