package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"uniride/auth"
	"uniride/booking"
	"uniride/event"
	"uniride/http"
	"uniride/message"
	"uniride/postgres"
	"uniride/realtime"
)

type Service struct {
	bindAddr   string
	forwarder  *message.Forwarder
	msgRouter  *message.Router
	httpRouter *echo.Echo
}

func New(
	logger watermill.LoggerAdapter,
	redisClient *redis.Client,
	dbConn *sqlx.DB,
	confirmationSender event.ConfirmationSender,
	tokenIssuer auth.TokenIssuer,
	bindAddr string,
) (*Service, error) {
	hub := realtime.NewHub()

	msgRouter, err := message.NewRouter(message.RouterDeps{
		Broadcaster:        hub,
		ConfirmationSender: confirmationSender,
		Logger:             logger,
		RedisClient:        redisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	fwd, err := message.NewForwarder(dbConn, redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating forwarder: %w", err)
	}

	tripRepo := postgres.NewTripRepo(dbConn)
	bookingRepo := postgres.NewBookingRepo(dbConn, logger)
	userRepo := postgres.NewUserRepo(dbConn)

	bookingService := booking.NewService(tripRepo, bookingRepo)
	authService := auth.NewService(userRepo, tokenIssuer)

	httpRouter := http.NewRouter(http.RouterDeps{
		AuthService:    authService,
		BookingLister:  bookingRepo,
		BookingService: bookingService,
		Drivers:        userRepo,
		Hub:            hub,
		Tokens:         tokenIssuer,
		Trips:          tripRepo,
	})

	return &Service{
		bindAddr:   bindAddr,
		forwarder:  fwd,
		msgRouter:  msgRouter,
		httpRouter: httpRouter,
	}, nil
}

func (s Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.forwarder.Run(runCtx); err != nil {
			return fmt.Errorf("running forwarder: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running messaging router: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		// Wait for message router
		<-s.msgRouter.Running()

		logrus.Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.bindAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
