package tests_test

import (
	"context"
	"sync"
)

type SentConfirmation struct {
	BookingID  string
	UserID     string
	TripID     string
	Seats      int
	AmountPaid int
}

type MockConfirmationSender struct {
	lock sync.Mutex
	sent []SentConfirmation
}

func (m *MockConfirmationSender) SendBookingConfirmation(_ context.Context, bookingID, userID, tripID string, seats, amountPaid int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.sent = append(m.sent, SentConfirmation{
		BookingID:  bookingID,
		UserID:     userID,
		TripID:     tripID,
		Seats:      seats,
		AmountPaid: amountPaid,
	})

	return nil
}

func (m *MockConfirmationSender) Sent() []SentConfirmation {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]SentConfirmation(nil), m.sent...)
}
