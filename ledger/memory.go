// Package ledger holds the in-memory trip ledger: authoritative
// booked-seat counters with a per-trip atomic check-and-increment. The
// wired service keeps its counters in Postgres (the conditional update
// in the postgres package); this rendition backs single-process setups
// and the booking tests.
package ledger

import (
	"context"
	"sync"

	"uniride/entity"
)

type tripState struct {
	mu          sync.Mutex
	totalSeats  int
	bookedSeats int
}

// InMemory serializes reservations per trip with a per-trip mutex, so
// reservations on different trips never contend with each other.
type InMemory struct {
	mu    sync.RWMutex
	trips map[string]*tripState
}

func NewInMemory() *InMemory {
	return &InMemory{
		trips: map[string]*tripState{},
	}
}

// AddTrip registers a trip's capacity with the ledger. It replaces any
// previous state for the same trip ID.
func (l *InMemory) AddTrip(tripID string, totalSeats, bookedSeats int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trips[tripID] = &tripState{
		totalSeats:  totalSeats,
		bookedSeats: bookedSeats,
	}
}

// Reserve atomically checks availability and increments the booked-seat
// counter, returning the new counter value. The check and the increment
// happen under the trip's lock: two concurrent requests for the last
// seat cannot both succeed.
func (l *InMemory) Reserve(_ context.Context, tripID string, seats int) (int, error) {
	t, err := l.trip(tripID)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	available := t.totalSeats - t.bookedSeats
	if seats > available {
		return 0, entity.NotEnoughSeatsError{
			Available: available,
			Requested: seats,
		}
	}

	t.bookedSeats += seats
	return t.bookedSeats, nil
}

// Release is the compensating decrement for a reservation whose booking
// record could not be stored. It never drives the counter negative.
func (l *InMemory) Release(_ context.Context, tripID string, seats int) error {
	t, err := l.trip(tripID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.bookedSeats -= seats
	if t.bookedSeats < 0 {
		t.bookedSeats = 0
	}
	return nil
}

// BookedSeats reports the current counter, for tests and for the
// availability query.
func (l *InMemory) BookedSeats(tripID string) (int, error) {
	t, err := l.trip(tripID)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bookedSeats, nil
}

func (l *InMemory) trip(tripID string) (*tripState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.trips[tripID]
	if !ok {
		return nil, entity.ErrTripNotFound
	}
	return t, nil
}
