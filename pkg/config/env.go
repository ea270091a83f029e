package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresDSN = "POSTGRES_DSN"

	EnvKafkaBrokers            = "KAFKA_BROKERS"
	EnvReservationEventsTopic  = "RESERVATION_EVENTS_TOPIC"
	EnvReservationEventsDLQ    = "RESERVATION_EVENTS_DLQ_TOPIC"
	EnvNotifierConsumerGroupID = "NOTIFIER_CONSUMER_GROUP_ID"

	EnvStripeSecretKey = "STRIPE_SECRET_KEY"
	EnvPaymentGateway  = "PAYMENT_GATEWAY"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvReservationLockTTL = "RESERVATION_LOCK_TTL"
	EnvMaxAdvanceDays     = "MAX_ADVANCE_DAYS"
	EnvDefaultCurrency    = "DEFAULT_CURRENCY"
)
