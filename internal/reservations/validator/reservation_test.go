package validator

import (
	"testing"
	"time"

	"lodgera/pkg/logger"
	"lodgera/pkg/model"
)

func newTestValidator() *ReservationValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewReservationValidator(365, log)
}

func validRequest(now time.Time) *model.ReservationRequest {
	return &model.ReservationRequest{
		HotelID:        "507f1f77bcf86cd799439011",
		RoomID:         "room-101",
		CheckIn:        now.AddDate(0, 0, 7),
		CheckOut:       now.AddDate(0, 0, 10),
		NumberOfGuests: 2,
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	v := newTestValidator()
	now := time.Now().UTC()

	if err := v.ValidateRequest(validRequest(now), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequest_CheckInToday(t *testing.T) {
	v := newTestValidator()
	// Late evening, so a same-day check-in is earlier in wall-clock time
	// but still valid at date granularity.
	now := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)

	req := validRequest(now)
	req.CheckIn = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	req.CheckOut = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	if err := v.ValidateRequest(req, now); err != nil {
		t.Fatalf("same-day check-in must be accepted, got: %v", err)
	}
}

func TestValidateRequest_CheckInPast(t *testing.T) {
	v := newTestValidator()
	now := time.Now().UTC()

	req := validRequest(now)
	req.CheckIn = now.AddDate(0, 0, -1)

	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for past check-in")
	}
}

func TestValidateRequest_TooFarAhead(t *testing.T) {
	v := newTestValidator()
	now := time.Now().UTC()

	req := validRequest(now)
	req.CheckIn = now.AddDate(0, 0, 366)
	req.CheckOut = now.AddDate(0, 0, 368)
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for check-in beyond the advance window")
	}

	req.CheckIn = Midnight(now).AddDate(0, 0, 365)
	req.CheckOut = req.CheckIn.AddDate(0, 0, 2)
	if err := v.ValidateRequest(req, now); err != nil {
		t.Fatalf("check-in exactly at the advance limit must be accepted, got: %v", err)
	}
}

func TestValidateRequest_CheckOutNotAfterCheckIn(t *testing.T) {
	v := newTestValidator()
	now := time.Now().UTC()

	req := validRequest(now)
	req.CheckOut = req.CheckIn
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for zero-night stay")
	}

	req.CheckOut = req.CheckIn.AddDate(0, 0, -1)
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for check-out before check-in")
	}
}

func TestValidateRequest_MissingFields(t *testing.T) {
	v := newTestValidator()
	now := time.Now().UTC()

	req := validRequest(now)
	req.HotelID = ""
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for missing hotel_id")
	}

	req = validRequest(now)
	req.HotelID = "not-an-object-id"
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for malformed hotel_id")
	}

	req = validRequest(now)
	req.NumberOfGuests = 0
	if err := v.ValidateRequest(req, now); err == nil {
		t.Fatal("expected error for zero guests")
	}
}

func TestValidateCapacity(t *testing.T) {
	v := newTestValidator()
	room := &model.Room{RoomID: "room-101", Capacity: 2}

	if err := v.ValidateCapacity(2, room); err != nil {
		t.Fatalf("guests at capacity must be accepted, got: %v", err)
	}
	if err := v.ValidateCapacity(3, room); err == nil {
		t.Fatal("expected error for guests over capacity")
	}
}

func TestNights(t *testing.T) {
	cases := []struct {
		in, out time.Time
		want    int
	}{
		{
			time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
			3,
		},
		{
			// Intra-day times are ignored.
			time.Date(2026, 9, 10, 22, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 11, 6, 0, 0, 0, time.UTC),
			1,
		},
		{
			time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC),
			3,
		},
	}

	for _, tc := range cases {
		if got := Nights(tc.in, tc.out); got != tc.want {
			t.Errorf("Nights(%v, %v): expected %d, got %d", tc.in, tc.out, tc.want, got)
		}
	}
}
