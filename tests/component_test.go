package tests_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniride/postgres"
)

func TestComponent(t *testing.T) {
	rdb := setupRedis(t)
	dbConn := setupDB(t)
	confirmationSender := &MockConfirmationSender{}

	startService(t, rdb, dbConn, confirmationSender)

	t.Run("booking broadcasts availability and sends confirmation", func(t *testing.T) {
		trip := createTrip(t, dbConn, 10, 8, 25)
		token, userID := studentToken(t)

		updates := openAvailabilityStream(t, trip.TripID)
		snapshot := nextUpdate(t, updates)
		assert.Equal(t, 2, snapshot.AvailableSeats)

		status, booking := bookSeats(t, token, trip.TripID, 2)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, booking.BookingID)

		update := nextUpdate(t, updates)
		assert.Equal(t, trip.TripID, update.TripID)
		assert.Equal(t, 0, update.AvailableSeats)

		assert.EventuallyWithT(t, func(collectT *assert.CollectT) {
			var confirmation *SentConfirmation
			for _, sent := range confirmationSender.Sent() {
				if sent.BookingID == booking.BookingID {
					confirmation = &sent
					break
				}
			}
			if !assert.NotNil(collectT, confirmation, "confirmation not sent yet") {
				return
			}
			assert.Equal(collectT, userID, confirmation.UserID)
			assert.Equal(collectT, 2, confirmation.Seats)
			assert.Equal(collectT, 50, confirmation.AmountPaid)
		}, 10*time.Second, 100*time.Millisecond)

		bookings, err := postgres.NewBookingRepo(dbConn, watermill.NopLogger{}).ListForUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, 50, bookings[0].AmountPaid)
	})

	t.Run("two concurrent requests for the last seats", func(t *testing.T) {
		trip := createTrip(t, dbConn, 2, 0, 20)

		statuses := make([]int, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			token, _ := studentToken(t)
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				statuses[i], _ = bookSeats(t, token, trip.TripID, 2)
			}(i, token)
		}
		wg.Wait()

		assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusBadRequest}, statuses)

		stored, err := postgres.NewTripRepo(dbConn).Get(context.Background(), trip.TripID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.BookedSeats)
	})

	t.Run("concurrent bookings notify in reservation order", func(t *testing.T) {
		trip := createTrip(t, dbConn, 30, 0, 10)

		updates := openAvailabilityStream(t, trip.TripID)
		require.Equal(t, 30, nextUpdate(t, updates).AvailableSeats)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			token, _ := studentToken(t)
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				status, _ := bookSeats(t, token, trip.TripID, 1)
				assert.Equal(t, http.StatusCreated, status)
			}(token)
		}
		wg.Wait()

		// Each event is staged under the trip's row lock in the same
		// transaction as its reservation, so the observer must see the
		// counter step down monotonically regardless of which request
		// won each race.
		for want := 29; want >= 25; want-- {
			assert.Equal(t, want, nextUpdate(t, updates).AvailableSeats)
		}
	})

	t.Run("sequential bookings notify in commit order", func(t *testing.T) {
		trip := createTrip(t, dbConn, 6, 0, 15)
		token, _ := studentToken(t)

		updates := openAvailabilityStream(t, trip.TripID)
		require.Equal(t, 6, nextUpdate(t, updates).AvailableSeats)

		status, _ := bookSeats(t, token, trip.TripID, 1)
		require.Equal(t, http.StatusCreated, status)
		status, _ = bookSeats(t, token, trip.TripID, 2)
		require.Equal(t, http.StatusCreated, status)

		assert.Equal(t, 5, nextUpdate(t, updates).AvailableSeats)
		assert.Equal(t, 3, nextUpdate(t, updates).AvailableSeats)
	})

	t.Run("invalid requests leave the ledger untouched", func(t *testing.T) {
		trip := createTrip(t, dbConn, 4, 0, 10)
		token, _ := studentToken(t)

		status, _ := bookSeats(t, token, trip.TripID, 0)
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = bookSeats(t, "", trip.TripID, 1)
		assert.Equal(t, http.StatusUnauthorized, status)

		stored, err := postgres.NewTripRepo(dbConn).Get(context.Background(), trip.TripID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.BookedSeats)
	})

	t.Run("unknown trip", func(t *testing.T) {
		token, _ := studentToken(t)

		status, _ := bookSeats(t, token, "c6a7b1de-0000-0000-0000-000000000000", 1)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
