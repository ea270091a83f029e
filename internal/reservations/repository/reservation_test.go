package repository

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"lodgera/pkg/model"
)

func TestApplyFilter(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *model.ReservationFilter
		want   bson.M
	}{
		{
			name:   "nil filter leaves the base query alone",
			filter: nil,
			want:   bson.M{"guest_id": "guest-1"},
		},
		{
			name:   "status and hotel",
			filter: &model.ReservationFilter{Status: model.StatusConfirmed, HotelID: "hotel-1"},
			want:   bson.M{"guest_id": "guest-1", "status": model.StatusConfirmed, "hotel_id": "hotel-1"},
		},
		{
			name:   "from date bounds check_in",
			filter: &model.ReservationFilter{FromDate: &from},
			want:   bson.M{"guest_id": "guest-1", "check_in": bson.M{"$gte": from}},
		},
		{
			name:   "to date bounds check_out",
			filter: &model.ReservationFilter{ToDate: &to},
			want:   bson.M{"guest_id": "guest-1", "check_out": bson.M{"$lte": to}},
		},
		{
			name:   "full window selects contained stays",
			filter: &model.ReservationFilter{FromDate: &from, ToDate: &to},
			want: bson.M{
				"guest_id":  "guest-1",
				"check_in":  bson.M{"$gte": from},
				"check_out": bson.M{"$lte": to},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyFilter(bson.M{"guest_id": "guest-1"}, tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("applyFilter mismatch\n got: %v\nwant: %v", got, tt.want)
			}
		})
	}
}
