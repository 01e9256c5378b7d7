package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"uniride/entity"
)

type TripRepo struct {
	db *sqlx.DB
}

func NewTripRepo(db *sqlx.DB) TripRepo {
	return TripRepo{
		db: db,
	}
}

func (r TripRepo) Add(ctx context.Context, trip entity.Trip) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO trips
		(trip_id, driver_id, university, origin, destination, route_stops,
		departure_time, arrival_time, price_per_seat, total_seats, booked_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		trip.TripID, trip.DriverID, trip.University, trip.Origin, trip.Destination,
		pq.Array(trip.RouteStops), trip.DepartureTime, trip.ArrivalTime,
		trip.PricePerSeat, trip.TotalSeats, trip.BookedSeats)
	return err
}

func (r TripRepo) Get(ctx context.Context, tripID string) (entity.Trip, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT trip_id, driver_id, university,
		origin, destination, route_stops, departure_time, arrival_time,
		price_per_seat, total_seats, booked_seats
		FROM trips WHERE trip_id = $1`, tripID)

	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Trip{}, entity.ErrTripNotFound
	}
	if err != nil {
		return entity.Trip{}, fmt.Errorf("scanning trip: %w", err)
	}

	return trip, nil
}

func (r TripRepo) List(ctx context.Context, filter entity.TripFilter) ([]entity.Trip, error) {
	query := `SELECT trip_id, driver_id, university, origin, destination,
		route_stops, departure_time, arrival_time, price_per_seat,
		total_seats, booked_seats FROM trips`

	var conditions []string
	var args []any
	addCondition := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.University != "" {
		addCondition("university = $%d", filter.University)
	}
	if filter.Origin != "" {
		addCondition("origin ILIKE '%%' || $%d || '%%'", filter.Origin)
	}
	if filter.Destination != "" {
		addCondition("destination ILIKE '%%' || $%d || '%%'", filter.Destination)
	}
	if filter.From != nil {
		addCondition("departure_time >= $%d", *filter.From)
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
			continue
		}
		query += " AND " + condition
	}
	query += " ORDER BY departure_time ASC LIMIT 50"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var trips []entity.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Reserve is the standalone SQL trip ledger operation. The booking
// store runs the same conditional update inside its transaction via
// reserveSeats.
func (r TripRepo) Reserve(ctx context.Context, tripID string, seats int) (int, error) {
	bookedSeats, _, err := reserveSeats(ctx, r.db, tripID, seats)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, reserveFailure(ctx, r.db, tripID, seats)
	}
	if err != nil {
		return 0, fmt.Errorf("reserving seats: %w", err)
	}

	return bookedSeats, nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// reserveSeats is the ledger's check-and-increment: one conditional
// UPDATE, atomic per trip row. Concurrent reservations on the same trip
// serialize on the row lock; different trips never contend. Callers
// translate sql.ErrNoRows through reserveFailure.
func reserveSeats(ctx context.Context, q rowQueryer, tripID string, seats int) (bookedSeats, availableSeats int, err error) {
	row := q.QueryRowContext(ctx, `UPDATE trips
		SET booked_seats = booked_seats + $2
		WHERE trip_id = $1 AND total_seats - booked_seats >= $2
		RETURNING booked_seats, total_seats - booked_seats`, tripID, seats)

	err = row.Scan(&bookedSeats, &availableSeats)
	return bookedSeats, availableSeats, err
}

// reserveFailure decides why the conditional update matched no row. The
// availability it reports is informational; the reservation itself was
// already decided atomically.
func reserveFailure(ctx context.Context, db *sqlx.DB, tripID string, seats int) error {
	row := db.QueryRowContext(ctx,
		`SELECT total_seats - booked_seats FROM trips WHERE trip_id = $1`, tripID)

	var available int
	err := row.Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrTripNotFound
	}
	if err != nil {
		return fmt.Errorf("checking availability: %w", err)
	}

	return entity.NotEnoughSeatsError{
		Available: available,
		Requested: seats,
	}
}

// Release is the ledger's compensating decrement. It never drives the
// counter negative.
func (r TripRepo) Release(ctx context.Context, tripID string, seats int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trips
		SET booked_seats = GREATEST(booked_seats - $2, 0)
		WHERE trip_id = $1`, tripID, seats)
	if err != nil {
		return fmt.Errorf("releasing seats: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrTripNotFound
	}

	return nil
}

type tripScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row tripScanner) (entity.Trip, error) {
	var t entity.Trip
	var stops pq.StringArray
	err := row.Scan(&t.TripID, &t.DriverID, &t.University, &t.Origin,
		&t.Destination, &stops, &t.DepartureTime, &t.ArrivalTime,
		&t.PricePerSeat, &t.TotalSeats, &t.BookedSeats)
	if err != nil {
		return entity.Trip{}, err
	}
	t.RouteStops = stops
	return t, nil
}
