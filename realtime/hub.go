// Package realtime fans availability updates out to connected
// observers. The subscription index lives only in memory: after a
// restart every observer has to resubscribe.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Update is what an observer receives whenever a reservation commits
// on a trip it watches.
type Update struct {
	TripID         string `json:"trip_id"`
	AvailableSeats int    `json:"available_seats"`
}

// Subscriber is one observer connection. Updates arrive on C in the
// order the underlying reservations committed. C is closed by
// Unsubscribe.
type Subscriber struct {
	C chan Update
}

type Hub struct {
	mu     sync.RWMutex
	byTrip map[string]map[*Subscriber]struct{}
	bySub  map[*Subscriber]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byTrip: map[string]map[*Subscriber]struct{}{},
		bySub:  map[*Subscriber]map[string]struct{}{},
	}
}

// NewSubscriber creates an observer with the given delivery buffer.
// When the buffer is full further updates are dropped for that
// observer only; a slow observer never delays the others.
func (h *Hub) NewSubscriber(buffer int) *Subscriber {
	return &Subscriber{
		C: make(chan Update, buffer),
	}
}

// Subscribe registers interest in one trip. An observer may watch any
// number of trips; subscribing twice to the same trip is a no-op.
func (h *Hub) Subscribe(sub *Subscriber, tripID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.byTrip[tripID]; !ok {
		h.byTrip[tripID] = map[*Subscriber]struct{}{}
	}
	h.byTrip[tripID][sub] = struct{}{}

	if _, ok := h.bySub[sub]; !ok {
		h.bySub[sub] = map[string]struct{}{}
	}
	h.bySub[sub][tripID] = struct{}{}
}

// Unsubscribe removes every subscription held by the observer and
// closes its channel. It is idempotent; callers defer it on connection
// close so the registry cannot leak.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tripIDs, ok := h.bySub[sub]
	if !ok {
		return
	}

	for tripID := range tripIDs {
		delete(h.byTrip[tripID], sub)
		if len(h.byTrip[tripID]) == 0 {
			delete(h.byTrip, tripID)
		}
	}
	delete(h.bySub, sub)

	// Sends only happen under the read lock, so closing here cannot
	// race a delivery.
	close(sub.C)
}

// Publish delivers the update to every observer of the trip.
// Best-effort per observer: a full buffer drops the update rather than
// blocking the fan-out.
func (h *Hub) Publish(tripID string, availableSeats int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	update := Update{
		TripID:         tripID,
		AvailableSeats: availableSeats,
	}

	for sub := range h.byTrip[tripID] {
		select {
		case sub.C <- update:
		default:
			logrus.WithField("trip_id", tripID).Warn("Dropping availability update for slow observer")
		}
	}
}
