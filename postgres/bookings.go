package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"

	"uniride/entity"
	"uniride/event"
	"uniride/message"
)

type BookingRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewBookingRepo(db *sqlx.DB, logger watermill.LoggerAdapter) BookingRepo {
	return BookingRepo{
		db:     db,
		logger: logger,
	}
}

// Add stores the booking together with its seat reservation: the
// conditional ledger update, the booking insert and the outbox
// publication of BookingMade and TripAvailabilityChanged happen in one
// transaction. The update takes the trip's row lock, so concurrent
// bookings commit their outbox rows in reservation order, and any
// failure rolls the reservation back with the rest of the transaction.
func (r BookingRepo) Add(ctx context.Context, booking entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := r.add(ctx, tx, booking); err != nil {
		return errors.Join(err, tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r BookingRepo) add(ctx context.Context, tx *sql.Tx, booking entity.Booking) error {
	_, availableSeats, err := reserveSeats(ctx, tx, booking.TripID, booking.Seats)
	if errors.Is(err, sql.ErrNoRows) {
		return reserveFailure(ctx, r.db, booking.TripID, booking.Seats)
	}
	if err != nil {
		return fmt.Errorf("reserving seats: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO bookings
		(booking_id, trip_id, user_id, seats, amount_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		booking.BookingID, booking.TripID, booking.UserID, booking.Seats,
		booking.AmountPaid, booking.Status, booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	made := event.NewBookingMade(booking.BookingID, booking)
	if err := message.PublishInTx(ctx, made, tx, r.logger); err != nil {
		return fmt.Errorf("publishing booking made event: %w", err)
	}

	changed := event.NewTripAvailabilityChanged(booking.BookingID, booking.TripID, availableSeats)
	if err := message.PublishInTx(ctx, changed, tx, r.logger); err != nil {
		return fmt.Errorf("publishing availability changed event: %w", err)
	}

	return nil
}

func (r BookingRepo) ListForUser(ctx context.Context, userID string) ([]entity.Booking, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT booking_id, trip_id, user_id,
		seats, amount_paid, status, created_at
		FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []entity.Booking
	for rows.Next() {
		var b entity.Booking
		err := rows.Scan(&b.BookingID, &b.TripID, &b.UserID, &b.Seats,
			&b.AmountPaid, &b.Status, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
