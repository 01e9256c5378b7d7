package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniride/entity"
	"uniride/ledger"
)

func TestInMemory_Reserve(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", 10, 8)

	booked, err := l.Reserve(ctx, "trip-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 10, booked)
}

func TestInMemory_Reserve_NotEnoughSeats(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", 10, 9)

	_, err := l.Reserve(ctx, "trip-1", 2)

	var notEnough entity.NotEnoughSeatsError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 1, notEnough.Available)
	assert.Equal(t, 2, notEnough.Requested)

	booked, err := l.BookedSeats("trip-1")
	require.NoError(t, err)
	assert.Equal(t, 9, booked, "failed reservation must not mutate the counter")
}

func TestInMemory_Reserve_UnknownTrip(t *testing.T) {
	l := ledger.NewInMemory()

	_, err := l.Reserve(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, entity.ErrTripNotFound)
}

func TestInMemory_Release(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", 5, 0)

	_, err := l.Reserve(ctx, "trip-1", 3)
	require.NoError(t, err)
	require.NoError(t, l.Release(ctx, "trip-1", 3))

	booked, err := l.BookedSeats("trip-1")
	require.NoError(t, err)
	assert.Equal(t, 0, booked)
}

// Two concurrent requests for the last two seats: exactly one wins.
func TestInMemory_Reserve_LastSeatsRace(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", 2, 0)

	start := make(chan struct{})
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = l.Reserve(ctx, "trip-1", 2)
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var notEnough entity.NotEnoughSeatsError
		require.ErrorAs(t, err, &notEnough)
		failed++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	booked, err := l.BookedSeats("trip-1")
	require.NoError(t, err)
	assert.Equal(t, 2, booked)
}

// The sum of successful reservations never exceeds capacity, and the
// counter settles at exactly that sum.
func TestInMemory_Reserve_NoOverselling(t *testing.T) {
	const (
		totalSeats = 10
		attempts   = 100
	)

	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", totalSeats, 0)

	start := make(chan struct{})
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := l.Reserve(ctx, "trip-1", 1)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, totalSeats, succeeded)

	booked, err := l.BookedSeats("trip-1")
	require.NoError(t, err)
	assert.Equal(t, totalSeats, booked)
}

// Reservations on distinct trips must not corrupt each other's
// counters.
func TestInMemory_Reserve_IndependentTrips(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInMemory()
	l.AddTrip("trip-1", 50, 0)
	l.AddTrip("trip-2", 50, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = l.Reserve(ctx, "trip-1", 1)
		}()
		go func() {
			defer wg.Done()
			_, _ = l.Reserve(ctx, "trip-2", 1)
		}()
	}
	wg.Wait()

	for _, tripID := range []string{"trip-1", "trip-2"} {
		booked, err := l.BookedSeats(tripID)
		require.NoError(t, err)
		assert.Equal(t, 50, booked)
	}
}
