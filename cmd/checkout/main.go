package main

import (
	"github.com/joho/godotenv"

	checkouthandler "lodgera/internal/checkout/handler"
	checkoutservice "lodgera/internal/checkout/service"
	"lodgera/internal/events"
	hotelsrepository "lodgera/internal/hotels/repository"
	"lodgera/internal/payments/gateway"
	"lodgera/internal/payments/ledger"
	paymentsservice "lodgera/internal/payments/service"
	reservationsrepository "lodgera/internal/reservations/repository"
	reservationsservice "lodgera/internal/reservations/service"
	"lodgera/internal/reservations/validator"
	"lodgera/pkg/app"
	"lodgera/pkg/config"
)

const ServiceName = "checkout"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetPostgres()

	cfg.Log.Info("Starting Checkout service")

	if err := ledger.Migrate(cfg.Client.Postgres); err != nil {
		cfg.Log.Fatal("Failed to migrate payment ledger", "error", err)
	}

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	checkoutService, paymentService, reservationService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(checkouthandler.NewCheckoutHandler(checkoutService, paymentService, reservationService, cfg.Log))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	publisher, err := events.NewKafkaPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) (checkoutservice.CheckoutService, paymentsservice.PaymentService, reservationsservice.ReservationService) {
	gw, err := gateway.New(cfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize payment gateway", "error", err)
	}

	reservationService := reservationsservice.NewReservationService(
		reservationsrepository.NewMongoReservationRepository(cfg),
		reservationsrepository.NewReservationLockRepository(cfg),
		hotelsrepository.NewMongoHotelRepository(cfg),
		validator.NewReservationValidator(cfg.MaxAdvanceDays, cfg.Log),
		publisher,
		cfg,
	)
	paymentService := paymentsservice.NewPaymentService(
		ledger.NewGormRepository(cfg.Client.Postgres),
		gw,
		cfg,
	)
	checkoutService := checkoutservice.NewCheckoutService(reservationService, paymentService, cfg)

	cfg.Log.Info("Checkout service initialized",
		"database", cfg.MongoDatabaseName,
		"gateway", gw.Name(),
	)
	return checkoutService, paymentService, reservationService
}
