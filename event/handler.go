package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// Broadcaster fans an availability update out to every observer of the
// trip.
type Broadcaster interface {
	Publish(tripID string, availableSeats int)
}

// ConfirmationSender notifies the customer-facing notifications
// collaborator about a completed booking.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, bookingID, userID, tripID string, seats, amountPaid int) error
}

func NewProcessorConfig(logger watermill.LoggerAdapter, redisClient *redis.Client) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "svc-uniride." + params.HandlerName,
			}, logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: logger,
	}
}

type Handler struct {
	broadcaster        Broadcaster
	confirmationSender ConfirmationSender
}

func NewHandler(b Broadcaster, c ConfirmationSender) Handler {
	return Handler{
		broadcaster:        b,
		confirmationSender: c,
	}
}

func (h Handler) NotifyTripObservers(_ context.Context, e *TripAvailabilityChanged) error {
	h.broadcaster.Publish(e.TripID, e.AvailableSeats)
	return nil
}

func (h Handler) SendBookingConfirmation(ctx context.Context, e *BookingMade) error {
	err := h.confirmationSender.SendBookingConfirmation(ctx, e.BookingID, e.UserID, e.TripID, e.Seats, e.AmountPaid)
	if err != nil {
		return fmt.Errorf("sending booking confirmation: %w", err)
	}

	return nil
}
