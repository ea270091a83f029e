package events

import (
	"context"
	"fmt"

	"lodgera/pkg/config"
	"lodgera/pkg/kafka"
	kafkamiddleware "lodgera/pkg/kafka/middleware"
	"lodgera/pkg/logger"
	"lodgera/pkg/model"
)

// Publisher emits reservation lifecycle events. Publishing is best effort
// from the caller's point of view; a failed publish must never fail the
// request that produced it.
type Publisher interface {
	Publish(ctx context.Context, event *model.ReservationEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewKafkaPublisher builds a publisher on the reservation events topic,
// with the configured DLQ as fallback destination.
func NewKafkaPublisher(cfg *config.Config) (Publisher, error) {
	producer, err := kafka.NewProducer(
		kafka.NewConfig(cfg.KafkaBrokers),
		cfg.ReservationEventsTopic,
		cfg.ReservationEventsDLQ,
		cfg.Log,
		kafkamiddleware.PublishLogging(cfg.Log),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reservation events producer: %w", err)
	}

	return &kafkaPublisher{producer: producer, log: cfg.Log}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *model.ReservationEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.ReservationID).
		WithEventType(event.Type).
		WithJSONValue(event).
		Build()
	if err != nil {
		return fmt.Errorf("building reservation event: %w", err)
	}

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
