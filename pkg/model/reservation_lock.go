package model

import "time"

// ReservationLock is an advisory lock taken while a room/date-range pair is
// being checked and inserted. The unique _id makes concurrent creates for
// the same slot collide on insert instead of double-booking.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
