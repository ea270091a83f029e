package model

import (
	"time"
)

type GuestDetails struct {
	Name            string `json:"name" bson:"name" validate:"omitempty,max=120"`
	Email           string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" bson:"phone" validate:"omitempty,e164"`
	SpecialRequests string `json:"special_requests" bson:"special_requests" validate:"omitempty,max=500"`
}

type Reservation struct {
	ID                 string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ReservationID      string        `json:"reservation_id" bson:"reservation_id" validate:"required,uuid4"`
	HotelID            string        `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomID             string        `json:"room_id" bson:"room_id" validate:"required"`
	GuestID            string        `json:"guest_id" bson:"guest_id" validate:"required"`
	OwnerID            string        `json:"owner_id" bson:"owner_id" validate:"required"`
	CheckIn            time.Time     `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut           time.Time     `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Nights             int           `json:"nights" bson:"nights" validate:"required,min=1"`
	NumberOfGuests     int           `json:"number_of_guests" bson:"number_of_guests" validate:"required,min=1"`
	GuestDetails       GuestDetails  `json:"guest_details" bson:"guest_details"`
	PricePerNight      float64       `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	TotalPrice         float64       `json:"total_price" bson:"total_price" validate:"gte=0"`
	Currency           string        `json:"currency" bson:"currency" validate:"required,len=3"`
	Status             Status        `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed rejected"`
	PaymentStatus      PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded failed"`
	SpecialRequests    string        `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	CancellationReason string        `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
}

// ReservationRequest is the client-supplied part of a reservation. Pricing,
// owner attribution and status are filled in by the lifecycle service.
type ReservationRequest struct {
	HotelID         string       `json:"hotel_id" validate:"required,mongodb"`
	RoomID          string       `json:"room_id" validate:"required"`
	CheckIn         time.Time    `json:"check_in" validate:"required"`
	CheckOut        time.Time    `json:"check_out" validate:"required"`
	NumberOfGuests  int          `json:"number_of_guests" validate:"required,min=1"`
	GuestDetails    GuestDetails `json:"guest_details"`
	SpecialRequests string       `json:"special_requests,omitempty" validate:"omitempty,max=500"`
	Currency        string       `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// StatusUpdateRequest is the body of a status transition call. Reason is
// required when the target status is cancelled.
type StatusUpdateRequest struct {
	Status Status `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ComputedBooking is a validated, priced reservation that has not been
// persisted. It is the payload handed back to the checkout flow between the
// charge and the final insert.
type ComputedBooking struct {
	HotelID         string       `json:"hotel_id"`
	RoomID          string       `json:"room_id"`
	OwnerID         string       `json:"owner_id"`
	CheckIn         time.Time    `json:"check_in"`
	CheckOut        time.Time    `json:"check_out"`
	Nights          int          `json:"nights"`
	NumberOfGuests  int          `json:"number_of_guests"`
	GuestDetails    GuestDetails `json:"guest_details"`
	SpecialRequests string       `json:"special_requests,omitempty"`
	PricePerNight   float64      `json:"price_per_night"`
	TotalPrice      float64      `json:"total_price"`
	Currency        string       `json:"currency"`
}

// ReservationFilter narrows guest/owner listing queries. Zero values mean
// "no filter".
type ReservationFilter struct {
	Status   Status
	HotelID  string
	FromDate *time.Time
	ToDate   *time.Time
}
