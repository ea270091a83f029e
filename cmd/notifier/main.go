package main

import (
	"context"

	"github.com/joho/godotenv"

	"lodgera/internal/notifications/consumer"
	"lodgera/internal/notifications/handler"
	"lodgera/internal/notifications/repository"
	"lodgera/pkg/app"
	"lodgera/pkg/config"
	"lodgera/pkg/kafka"
)

const ServiceName = "notifier"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Notifier service")

	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	eventHandler := consumer.NewEventHandler(notificationRepo, cfg)

	kafkaConsumer := initConsumer(cfg)
	defer func() {
		if err := kafkaConsumer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := kafkaConsumer.Run(ctx, eventHandler.Handle); err != nil {
			cfg.Log.Error("Consumer loop exited", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewNotificationHandler(notificationRepo, cfg.Log))
	serverApp.Run()
}

func initConsumer(cfg *config.Config) *kafka.Consumer {
	kafkaCfg := kafka.NewConfig(cfg.KafkaBrokers)

	dlq, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsDLQ, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize DLQ producer", "error", err)
	}

	kafkaConsumer, err := kafka.NewConsumer(kafkaCfg, cfg.ReservationEventsTopic, cfg.NotifierConsumerGroupID, dlq, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka consumer", "error", err)
	}

	cfg.Log.Info("Kafka consumer initialized",
		"topic", cfg.ReservationEventsTopic,
		"group_id", cfg.NotifierConsumerGroupID,
	)
	return kafkaConsumer
}
