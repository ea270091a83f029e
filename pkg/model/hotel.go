package model

import "time"

// Room is an embedded sub-document of Hotel; rooms have no collection of
// their own. The Available flag is an owner-facing delist switch and is
// deliberately not consulted by the availability check, which only looks at
// overlapping reservations.
type Room struct {
	RoomID        string  `json:"room_id" bson:"room_id"`
	Type          string  `json:"type" bson:"type"`
	Capacity      int     `json:"capacity" bson:"capacity"`
	PricePerNight float64 `json:"price_per_night" bson:"price_per_night"`
	Available     bool    `json:"available" bson:"available"`
}

type Hotel struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Name      string    `json:"name" bson:"name"`
	City      string    `json:"city" bson:"city"`
	Country   string    `json:"country" bson:"country"`
	Rooms     []Room    `json:"rooms" bson:"rooms"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FindRoom resolves an embedded room by its room_id.
func (h *Hotel) FindRoom(roomID string) (*Room, bool) {
	for i := range h.Rooms {
		if h.Rooms[i].RoomID == roomID {
			return &h.Rooms[i], true
		}
	}
	return nil, false
}
