package main

import (
	"github.com/joho/godotenv"

	"lodgera/internal/events"
	hotelsrepository "lodgera/internal/hotels/repository"
	"lodgera/internal/reservations/handler"
	"lodgera/internal/reservations/repository"
	"lodgera/internal/reservations/service"
	"lodgera/internal/reservations/validator"
	"lodgera/pkg/app"
	"lodgera/pkg/config"
)

const ServiceName = "reservations"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	reservationService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	publisher, err := events.NewKafkaPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.MaxAdvanceDays, cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)
	hotelRepo := hotelsrepository.NewMongoHotelRepository(cfg)

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		hotelRepo,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
