package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"uniride/auth"
	"uniride/entity"
)

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	University string `json:"university"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

func (h handler) Register(c echo.Context) error {
	var request registerRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}

	token, user, err := h.authService.Register(c.Request().Context(), auth.RegisterParams{
		Email:      request.Email,
		Password:   request.Password,
		FullName:   request.FullName,
		Phone:      request.Phone,
		University: request.University,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h handler) Login(c echo.Context) error {
	var request loginRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), request.Email, request.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

type createTripRequest struct {
	University    string    `json:"university"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	RouteStops    []string  `json:"route_stops"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	PricePerSeat  int       `json:"price_per_seat"`
	TotalSeats    int       `json:"total_seats"`
}

type tripResponse struct {
	entity.Trip
	AvailableSeats int    `json:"available_seats"`
	DriverName     string `json:"driver_name,omitempty"`
	DriverPhone    string `json:"driver_phone_masked,omitempty"`
}

func newTripResponse(trip entity.Trip, driver entity.User) tripResponse {
	return tripResponse{
		Trip:           trip,
		AvailableSeats: trip.AvailableSeats(),
		DriverName:     driver.FullName,
		DriverPhone:    maskPhone(driver.Phone),
	}
}

// maskPhone hides all but the last four characters of the driver's
// phone number.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// driver resolves the driver's user record for display. A missing
// record yields empty driver fields rather than failing the trip
// lookup.
func (h handler) driver(ctx context.Context, driverID string) (entity.User, error) {
	driver, err := h.drivers.Get(ctx, driverID)
	if err != nil && !errors.Is(err, entity.ErrUserNotFound) {
		return entity.User{}, fmt.Errorf("getting driver: %w", err)
	}
	return driver, nil
}

func (h handler) CreateTrip(c echo.Context) error {
	identity := identityFrom(c)
	if identity == nil {
		return httpError(entity.ErrUnauthorized)
	}
	if identity.Role != entity.RoleDriver {
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: "driver role required",
		}
	}

	var request createTripRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.Origin == "" || request.Destination == "" {
		return badRequest("origin and destination are required", nil)
	}
	if request.TotalSeats < 1 {
		return badRequest("total seats must be at least 1", nil)
	}
	if !request.ArrivalTime.After(request.DepartureTime) {
		return badRequest("arrival time must be after departure time", nil)
	}

	trip := entity.Trip{
		TripID:        uuid.NewString(),
		DriverID:      identity.UserID,
		University:    request.University,
		Origin:        request.Origin,
		Destination:   request.Destination,
		RouteStops:    request.RouteStops,
		DepartureTime: request.DepartureTime,
		ArrivalTime:   request.ArrivalTime,
		PricePerSeat:  request.PricePerSeat,
		TotalSeats:    request.TotalSeats,
	}

	if err := h.trips.Add(c.Request().Context(), trip); err != nil {
		return httpError(fmt.Errorf("storing trip: %w", err))
	}

	return c.JSON(http.StatusCreated, map[string]string{"trip_id": trip.TripID})
}

func (h handler) ListTrips(c echo.Context) error {
	filter := entity.TripFilter{
		University:  c.QueryParam("university"),
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
	}
	if from := c.QueryParam("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return badRequest("invalid 'from' timestamp", err)
		}
		filter.From = &parsed
	}

	ctx := c.Request().Context()
	trips, err := h.trips.List(ctx, filter)
	if err != nil {
		return httpError(fmt.Errorf("listing trips: %w", err))
	}

	drivers := map[string]entity.User{}
	response := make([]tripResponse, 0, len(trips))
	for _, trip := range trips {
		driver, ok := drivers[trip.DriverID]
		if !ok {
			if driver, err = h.driver(ctx, trip.DriverID); err != nil {
				return httpError(err)
			}
			drivers[trip.DriverID] = driver
		}
		response = append(response, newTripResponse(trip, driver))
	}

	return c.JSON(http.StatusOK, map[string]any{"trips": response})
}

func (h handler) GetTrip(c echo.Context) error {
	trip, err := h.trips.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	driver, err := h.driver(c.Request().Context(), trip.DriverID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"trip": newTripResponse(trip, driver)})
}

type availabilityResponse struct {
	TripID         string `json:"trip_id"`
	AvailableSeats int    `json:"available_seats"`
}

// GetTripAvailability serves the initial render before a client
// subscribes to the live stream.
func (h handler) GetTripAvailability(c echo.Context) error {
	trip, err := h.trips.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, availabilityResponse{
		TripID:         trip.TripID,
		AvailableSeats: trip.AvailableSeats(),
	})
}

func badRequest(message string, err error) error {
	return &echo.HTTPError{
		Code:     http.StatusBadRequest,
		Message:  message,
		Internal: err,
	}
}
