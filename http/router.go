package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"uniride/auth"
	"uniride/entity"
	"uniride/realtime"
)

var ErrServerClosed = http.ErrServerClosed

type AuthService interface {
	Register(ctx context.Context, p auth.RegisterParams) (string, entity.User, error)
	Login(ctx context.Context, email, password string) (string, entity.User, error)
}

type TokenParser interface {
	Parse(token string) (entity.Identity, error)
}

type BookingService interface {
	BookSeats(ctx context.Context, identity *entity.Identity, tripID string, seats int) (string, error)
}

type TripRepo interface {
	Add(ctx context.Context, trip entity.Trip) error
	Get(ctx context.Context, tripID string) (entity.Trip, error)
	List(ctx context.Context, filter entity.TripFilter) ([]entity.Trip, error)
}

type BookingLister interface {
	ListForUser(ctx context.Context, userID string) ([]entity.Booking, error)
}

// DriverDirectory resolves a trip's driver for display alongside the
// trip.
type DriverDirectory interface {
	Get(ctx context.Context, userID string) (entity.User, error)
}

type RouterDeps struct {
	AuthService    AuthService
	BookingLister  BookingLister
	BookingService BookingService
	Drivers        DriverDirectory
	Hub            *realtime.Hub
	Tokens         TokenParser
	Trips          TripRepo
}

func NewRouter(deps RouterDeps) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Use(echoMiddleware.Recover())
	server.Use(echoMiddleware.CORS())
	server.Use(resolveIdentity(deps.Tokens))

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	h := handler{
		authService:    deps.AuthService,
		bookingLister:  deps.BookingLister,
		bookingService: deps.BookingService,
		drivers:        deps.Drivers,
		hub:            deps.Hub,
		trips:          deps.Trips,
	}

	api := server.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/trips", h.CreateTrip)
	api.GET("/trips", h.ListTrips)
	api.GET("/trips/:id", h.GetTrip)
	api.GET("/trips/:id/availability", h.GetTripAvailability)
	api.GET("/trips/:id/live", h.StreamTripAvailability)
	api.POST("/bookings", h.CreateBooking)
	api.GET("/me/bookings", h.ListMyBookings)

	return server
}

type handler struct {
	authService    AuthService
	bookingLister  BookingLister
	bookingService BookingService
	drivers        DriverDirectory
	hub            *realtime.Hub
	trips          TripRepo
}
