// Package booking implements the booking authority: the only component
// allowed to turn a reservation request into a ledger mutation and a
// booking record.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"uniride/entity"
)

type TripGetter interface {
	Get(ctx context.Context, tripID string) (entity.Trip, error)
}

// BookingRepo persists a booking as one atomic unit with its seat
// reservation: the ledger increment, the booking record and the staged
// events either all happen or none do. Reservation failures surface as
// entity.ErrTripNotFound or entity.NotEnoughSeatsError.
type BookingRepo interface {
	Add(ctx context.Context, booking entity.Booking) error
}

type Service struct {
	trips    TripGetter
	bookings BookingRepo
}

func NewService(trips TripGetter, bookings BookingRepo) Service {
	return Service{
		trips:    trips,
		bookings: bookings,
	}
}

// BookSeats reserves seats on a trip for the caller and returns the new
// booking's ID. The reservation and the booking record are committed
// together by the store; a failure at any point leaves the ledger
// untouched.
func (s Service) BookSeats(ctx context.Context, identity *entity.Identity, tripID string, seats int) (string, error) {
	if seats < 1 {
		return "", entity.ErrInvalidSeatCount
	}
	if identity == nil {
		return "", entity.ErrUnauthorized
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return "", fmt.Errorf("getting trip: %w", err)
	}

	b := entity.Booking{
		BookingID:  uuid.NewString(),
		TripID:     tripID,
		UserID:     identity.UserID,
		Seats:      seats,
		AmountPaid: seats * trip.PricePerSeat,
		Status:     entity.BookingStatusConfirmed,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.bookings.Add(ctx, b); err != nil {
		return "", fmt.Errorf("storing booking: %w", err)
	}

	return b.BookingID, nil
}
