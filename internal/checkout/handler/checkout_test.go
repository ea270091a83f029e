package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"lodgera/internal/checkout/service"
	"lodgera/internal/payments/ledger"
	"lodgera/pkg/logger"
	"lodgera/pkg/middleware"
	"lodgera/pkg/model"
)

type mockCheckoutService struct{}

func (m *mockCheckoutService) Checkout(context.Context, string, *service.CheckoutRequest) (*service.CheckoutResult, error) {
	panic("unexpected call to Checkout")
}

type mockPaymentService struct {
	getByReservationCalls int
}

func (m *mockPaymentService) CreateForCheckout(context.Context, string, string, float64, string, string) (*ledger.Payment, error) {
	panic("unexpected call to CreateForCheckout")
}

func (m *mockPaymentService) Process(context.Context, string, string, string) (*ledger.Payment, error) {
	panic("unexpected call to Process")
}

func (m *mockPaymentService) Refund(context.Context, string, float64) (*ledger.Payment, error) {
	panic("unexpected call to Refund")
}

func (m *mockPaymentService) GetByReservation(_ context.Context, reservationID string) ([]*ledger.Payment, error) {
	m.getByReservationCalls++
	return []*ledger.Payment{{ID: "pay-1", ReservationID: reservationID, GuestID: "guest-1"}}, nil
}

type mockReservationService struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Reservation, error)
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockReservationService) Create(context.Context, string, *model.ReservationRequest) (*model.Reservation, error) {
	panic("unexpected call to Create")
}

func (m *mockReservationService) ValidateAndCompute(context.Context, string, *model.ReservationRequest) (*model.ComputedBooking, error) {
	panic("unexpected call to ValidateAndCompute")
}

func (m *mockReservationService) CreateAfterPayment(context.Context, string, string, *model.ComputedBooking) (*model.Reservation, error) {
	panic("unexpected call to CreateAfterPayment")
}

func (m *mockReservationService) UpdateStatus(context.Context, string, model.Status, string, model.ActorRole, string) (*model.Reservation, error) {
	panic("unexpected call to UpdateStatus")
}

func (m *mockReservationService) CheckAvailability(context.Context, string, string, time.Time, time.Time, string) (bool, error) {
	panic("unexpected call to CheckAvailability")
}

func (m *mockReservationService) ListByGuest(context.Context, string, *model.ReservationFilter, int, int64) ([]*model.Reservation, int64, error) {
	panic("unexpected call to ListByGuest")
}

func (m *mockReservationService) ListByOwner(context.Context, string, *model.ReservationFilter, int, int64) ([]*model.Reservation, int64, error) {
	panic("unexpected call to ListByOwner")
}

func (m *mockReservationService) Calendar(context.Context, string, string, int, int) ([]*model.Reservation, error) {
	panic("unexpected call to Calendar")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func actorRequest(actorID string, role model.ActorRole) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/res-1/payments", nil)
	ctx := context.WithValue(req.Context(), middleware.ActorIDKey, actorID)
	ctx = context.WithValue(ctx, middleware.ActorRoleKey, role)
	return req.WithContext(ctx)
}

func TestListPayments_Access(t *testing.T) {
	reservations := &mockReservationService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ReservationID: id,
				GuestID:       "guest-1",
				OwnerID:       "owner-1",
			}, nil
		},
	}

	tests := []struct {
		name       string
		actorID    string
		role       model.ActorRole
		wantStatus int
	}{
		{"guest owns reservation", "guest-1", model.RoleGuest, http.StatusOK},
		{"other guest", "guest-2", model.RoleGuest, http.StatusForbidden},
		{"owner of booked hotel", "owner-1", model.RoleOwner, http.StatusOK},
		{"owner of another hotel", "owner-2", model.RoleOwner, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &mockPaymentService{}
			h := NewCheckoutHandler(&mockCheckoutService{}, payments, reservations, testLogger())

			rec := httptest.NewRecorder()
			h.ListPayments(rec, actorRequest(tt.actorID, tt.role), httprouter.Params{{Key: "reservation_id", Value: "res-1"}})

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden && payments.getByReservationCalls != 0 {
				t.Errorf("ledger must not be read for a forbidden actor, got %d calls", payments.getByReservationCalls)
			}
		})
	}
}
