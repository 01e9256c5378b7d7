package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the booking core. The HTTP layer maps
// each to a distinct status code so clients can tell a retryable
// failure from a futile one.
var (
	ErrInvalidSeatCount = errors.New("seat count must be at least 1")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTripNotFound     = errors.New("trip not found")
	ErrUserNotFound     = errors.New("user not found")
)

// NotEnoughSeatsError is returned by the trip ledger when a reservation
// asks for more seats than the trip has left.
type NotEnoughSeatsError struct {
	Available int
	Requested int
}

func (e NotEnoughSeatsError) Error() string {
	return fmt.Sprintf("not enough seats: %d available, %d requested", e.Available, e.Requested)
}
