package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lodgera"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPostgresDSN = "host=localhost user=lodgera password=lodgera dbname=lodgera_payments port=5432 sslmode=disable"

	DefaultKafkaBrokers            = "localhost:9092"
	DefaultReservationEventsTopic  = "reservation-events"
	DefaultReservationEventsDLQ    = "reservation-events-dlq"
	DefaultNotifierConsumerGroupID = "notifier"

	DefaultPaymentGateway = "manual"

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultReservationLockTTL = 10 * time.Second
	DefaultMaxAdvanceDays     = 365
	DefaultCurrency           = "USD"

	DefaultPaginationLimit = 100
)
