package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateUsersTable(ctx, db); err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	if err := CreateTripsTable(ctx, db); err != nil {
		return fmt.Errorf("creating trips table: %w", err)
	}

	if err := CreateBookingsTable(ctx, db); err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	return nil
}

func CreateUsersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		university VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(16) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);`)
	return err
}

func CreateTripsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS trips (
		trip_id UUID PRIMARY KEY,
		driver_id UUID NOT NULL,
		university VARCHAR(255) NOT NULL,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		route_stops TEXT[] NOT NULL DEFAULT '{}',
		departure_time TIMESTAMP WITH TIME ZONE NOT NULL,
		arrival_time TIMESTAMP WITH TIME ZONE NOT NULL,
		price_per_seat INTEGER NOT NULL,
		total_seats INTEGER NOT NULL CHECK (total_seats > 0),
		booked_seats INTEGER NOT NULL DEFAULT 0
			CHECK (booked_seats >= 0 AND booked_seats <= total_seats)
	);`)
	return err
}

func CreateBookingsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS bookings (
		booking_id UUID PRIMARY KEY,
		trip_id UUID NOT NULL,
		user_id UUID NOT NULL,
		seats INTEGER NOT NULL CHECK (seats > 0),
		amount_paid INTEGER NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);`)
	return err
}
