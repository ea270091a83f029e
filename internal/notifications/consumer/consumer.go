package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"lodgera/internal/notifications/repository"
	"lodgera/pkg/config"
	"lodgera/pkg/model"
)

// EventHandler turns reservation events into stored notifications.
type EventHandler struct {
	repo repository.NotificationRepository
	cfg  *config.Config
}

func NewEventHandler(repo repository.NotificationRepository, cfg *config.Config) *EventHandler {
	return &EventHandler{repo: repo, cfg: cfg}
}

// Handle is the message handler plugged into the Kafka consumer loop.
func (h *EventHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	var event model.ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decoding reservation event: %w", err)
	}

	notifications := buildNotifications(&event)
	for _, notification := range notifications {
		if err := h.repo.Create(ctx, notification); err != nil {
			return err
		}
	}

	h.cfg.Log.Info("Reservation event handled",
		"event_type", event.Type,
		"reservation_id", event.ReservationID,
		"notifications", len(notifications),
	)
	return nil
}

// buildNotifications decides who hears about an event. Owners learn about
// new and paid bookings; status changes are relayed to the side that did
// not initiate them, which the event does not carry, so both sides get a
// copy and clients filter their own actions.
func buildNotifications(event *model.ReservationEvent) []*model.Notification {
	switch event.Type {
	case model.EventReservationCreated:
		return []*model.Notification{notify(event, event.OwnerID,
			fmt.Sprintf("New reservation %s is awaiting your confirmation", event.ReservationID))}

	case model.EventCheckoutCompleted:
		return []*model.Notification{notify(event, event.OwnerID,
			fmt.Sprintf("Reservation %s was booked and paid (%.2f %s)", event.ReservationID, event.TotalPrice, event.Currency))}

	case model.EventReservationStatusChanged:
		message := fmt.Sprintf("Reservation %s changed from %s to %s", event.ReservationID, event.PreviousStatus, event.Status)
		return []*model.Notification{
			notify(event, event.GuestID, message),
			notify(event, event.OwnerID, message),
		}

	default:
		return nil
	}
}

func notify(event *model.ReservationEvent, recipientID, message string) *model.Notification {
	return &model.Notification{
		RecipientID:   recipientID,
		ReservationID: event.ReservationID,
		EventType:     event.Type,
		Message:       message,
	}
}
