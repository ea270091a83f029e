package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	paymentsservice "lodgera/internal/payments/service"
	reservationsservice "lodgera/internal/reservations/service"
	"lodgera/pkg/config"
	apperrors "lodgera/pkg/errors"
	"lodgera/pkg/model"

	"lodgera/internal/payments/ledger"
)

// CheckoutRequest is a reservation request plus the payment instrument to
// charge for it.
type CheckoutRequest struct {
	Reservation model.ReservationRequest `json:"reservation"`
	Method      string                   `json:"payment_method"`
	MethodToken string                   `json:"payment_method_token"`
}

// CheckoutResult bundles the persisted reservation with its settled payment.
type CheckoutResult struct {
	Reservation *model.Reservation `json:"reservation"`
	Payment     *ledger.Payment    `json:"payment"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, guestID string, req *CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	reservations reservationsservice.ReservationService
	payments     paymentsservice.PaymentService
	cfg          *config.Config
}

func NewCheckoutService(
	reservations reservationsservice.ReservationService,
	payments paymentsservice.PaymentService,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		reservations: reservations,
		payments:     payments,
		cfg:          cfg,
	}
}

// Checkout runs the pay-then-persist flow. The reservation is only written
// after the charge settles, so a declined card leaves no reservation behind.
// If the final insert fails after a successful charge, the charge is
// refunded before the error is returned.
func (s *checkoutService) Checkout(ctx context.Context, guestID string, req *CheckoutRequest) (*CheckoutResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Checkout request body is required")
	}

	booking, err := s.reservations.ValidateAndCompute(ctx, guestID, &req.Reservation)
	if err != nil {
		return nil, err
	}

	reservationID := uuid.NewString()
	payment, err := s.payments.CreateForCheckout(ctx, reservationID, guestID, booking.TotalPrice, booking.Currency, req.Method)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Reservation %s, %d night(s)", reservationID, booking.Nights)
	payment, err = s.payments.Process(ctx, payment.ID, req.MethodToken, description)
	if err != nil {
		s.cfg.Log.Warn("Checkout charge failed",
			"reservation_id", reservationID,
			"error", err,
		)
		return nil, err
	}

	reservation, err := s.reservations.CreateAfterPayment(ctx, guestID, reservationID, booking)
	if err != nil {
		s.compensate(ctx, payment.ID, reservationID)
		return nil, err
	}

	s.cfg.Log.Info("Checkout completed",
		"reservation_id", reservationID,
		"payment_id", payment.ID,
		"total_price", booking.TotalPrice,
	)
	return &CheckoutResult{Reservation: reservation, Payment: payment}, nil
}

// compensate refunds a settled charge whose reservation could not be
// persisted. A failed refund is logged loudly; the ledger keeps the
// completed payment so the money can be recovered manually.
func (s *checkoutService) compensate(ctx context.Context, paymentID, reservationID string) {
	if _, err := s.payments.Refund(ctx, paymentID, 0); err != nil {
		s.cfg.Log.Error("Compensating refund failed, manual intervention required",
			"payment_id", paymentID,
			"reservation_id", reservationID,
			"error", err,
		)
		return
	}

	s.cfg.Log.Warn("Checkout rolled back, charge refunded",
		"payment_id", paymentID,
		"reservation_id", reservationID,
	)
}
