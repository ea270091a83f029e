package model

import "time"

// Reservation event types published to Kafka.
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventCheckoutCompleted        = "reservation.checkout_completed"
)

// ReservationEvent is the payload for all reservation topics, keyed by
// reservation_id so per-reservation ordering is preserved.
type ReservationEvent struct {
	Type           string        `json:"type"`
	ReservationID  string        `json:"reservation_id"`
	HotelID        string        `json:"hotel_id"`
	RoomID         string        `json:"room_id"`
	GuestID        string        `json:"guest_id"`
	OwnerID        string        `json:"owner_id"`
	Status         Status        `json:"status"`
	PreviousStatus Status        `json:"previous_status,omitempty"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	TotalPrice     float64       `json:"total_price"`
	Currency       string        `json:"currency"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// Notification is the document the notifier writes for each consumed event.
type Notification struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID   string    `json:"recipient_id" bson:"recipient_id"`
	ReservationID string    `json:"reservation_id" bson:"reservation_id"`
	EventType     string    `json:"event_type" bson:"event_type"`
	Message       string    `json:"message" bson:"message"`
	Read          bool      `json:"read" bson:"read"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
