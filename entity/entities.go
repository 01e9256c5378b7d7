package entity

import "time"

const (
	BookingStatusConfirmed = "CONFIRMED"
	// BookingStatusCancelled is reserved for cancellation support.
	BookingStatusCancelled = "CANCELLED"
)

const (
	RoleStudent = "STUDENT"
	RoleDriver  = "DRIVER"
)

// Identity is the resolved caller, extracted from a bearer token by the
// HTTP middleware. A nil *Identity means the request is anonymous.
type Identity struct {
	UserID string
	Role   string
}

type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	University   string    `json:"university"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trip is a scheduled ride with a fixed seat capacity. TotalSeats is
// immutable after creation; BookedSeats is mutated only through the
// trip ledger's Reserve and Release operations.
type Trip struct {
	TripID        string    `json:"trip_id"`
	DriverID      string    `json:"driver_id"`
	University    string    `json:"university"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	RouteStops    []string  `json:"route_stops"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	PricePerSeat  int       `json:"price_per_seat"`
	TotalSeats    int       `json:"total_seats"`
	BookedSeats   int       `json:"booked_seats"`
}

// AvailableSeats is never negative: booked_seats <= total_seats is
// enforced by the ledger and by a database check constraint.
func (t Trip) AvailableSeats() int {
	return t.TotalSeats - t.BookedSeats
}

// TripFilter narrows a trip search. Zero values mean "no constraint".
type TripFilter struct {
	University  string
	Origin      string
	Destination string
	From        *time.Time
}

type Booking struct {
	BookingID  string    `json:"booking_id"`
	TripID     string    `json:"trip_id"`
	UserID     string    `json:"user_id"`
	Seats      int       `json:"seats"`
	AmountPaid int       `json:"amount_paid"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
