package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniride/entity"
	"uniride/postgres"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTripRepo_Reserve(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	mock.ExpectQuery("UPDATE trips").
		WithArgs("trip-1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"booked_seats", "available_seats"}).AddRow(10, 0))

	booked, err := r.Reserve(context.Background(), "trip-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 10, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_Reserve_NotEnoughSeats(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	// The conditional update matches no row when availability is too
	// low; the follow-up select is only for the error message.
	mock.ExpectQuery("UPDATE trips").
		WithArgs("trip-1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"booked_seats", "available_seats"}))
	mock.ExpectQuery("SELECT total_seats - booked_seats").
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(1))

	_, err := r.Reserve(context.Background(), "trip-1", 2)

	var notEnough entity.NotEnoughSeatsError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 1, notEnough.Available)
	assert.Equal(t, 2, notEnough.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_Reserve_TripNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	mock.ExpectQuery("UPDATE trips").
		WithArgs("unknown", 1).
		WillReturnRows(sqlmock.NewRows([]string{"booked_seats", "available_seats"}))
	mock.ExpectQuery("SELECT total_seats - booked_seats").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"available"}))

	_, err := r.Reserve(context.Background(), "unknown", 1)
	assert.ErrorIs(t, err, entity.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_Release(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Release(context.Background(), "trip-1", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_Release_TripNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	mock.ExpectExec("UPDATE trips").
		WithArgs("unknown", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Release(context.Background(), "unknown", 2)
	assert.ErrorIs(t, err, entity.ErrTripNotFound)
}

func TestTripRepo_Get_TripNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := postgres.NewTripRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"trip_id"}))

	_, err := r.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, entity.ErrTripNotFound)
}
