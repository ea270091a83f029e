package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lodgera/internal/payments/gateway"
	"lodgera/internal/payments/ledger"
	"lodgera/pkg/config"
	apperrors "lodgera/pkg/errors"
)

type PaymentService interface {
	CreateForCheckout(ctx context.Context, reservationID, guestID string, amount float64, currency, method string) (*ledger.Payment, error)
	Process(ctx context.Context, paymentID, methodToken, description string) (*ledger.Payment, error)
	Refund(ctx context.Context, paymentID string, amount float64) (*ledger.Payment, error)
	GetByReservation(ctx context.Context, reservationID string) ([]*ledger.Payment, error)
}

type paymentService struct {
	repo    ledger.Repository
	gateway gateway.Gateway
	cfg     *config.Config
}

func NewPaymentService(repo ledger.Repository, gw gateway.Gateway, cfg *config.Config) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gw,
		cfg:     cfg,
	}
}

// CreateForCheckout opens a pending ledger row for a reservation about to be
// charged. A reservation with a completed payment cannot be charged again.
func (s *paymentService) CreateForCheckout(ctx context.Context, reservationID, guestID string, amount float64, currency, method string) (*ledger.Payment, error) {
	if reservationID == "" || guestID == "" {
		return nil, apperrors.InvalidInput("Reservation ID and guest ID are required")
	}
	if amount <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("payment amount must be positive, got: %.2f", amount))
	}

	alreadyPaid, err := s.repo.HasCompletedPayment(ctx, reservationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing payments", err)
	}
	if alreadyPaid {
		return nil, apperrors.Conflict("Reservation already has a completed payment")
	}

	payment := &ledger.Payment{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		GuestID:       guestID,
		Amount:        amount,
		Currency:      currency,
		Status:        ledger.PaymentPending,
		Method:        method,
		Gateway:       s.gateway.Name(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal("Failed to create payment", err)
	}

	s.cfg.Log.Info("Payment created",
		"payment_id", payment.ID,
		"reservation_id", reservationID,
		"amount", amount,
		"currency", currency,
	)
	return payment, nil
}

// Process moves a pending payment through the gateway. The row goes to
// processing before the charge, then to completed or failed with a matching
// transaction record.
func (s *paymentService) Process(ctx context.Context, paymentID, methodToken, description string) (*ledger.Payment, error) {
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != ledger.PaymentPending {
		return nil, apperrors.Conflict(fmt.Sprintf("payment cannot be processed from status %s", payment.Status))
	}

	payment.Status = ledger.PaymentProcessing
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, apperrors.Internal("Failed to update payment", err)
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		MethodToken:    methodToken,
		IdempotencyKey: payment.ID,
		Description:    description,
	})
	if err != nil {
		s.markFailed(ctx, payment, "gateway_error", err.Error())
		return nil, apperrors.Unavailable("payment gateway")
	}

	now := time.Now().UTC()
	if !result.Succeeded {
		s.markFailed(ctx, payment, result.ErrorCode, result.ErrorMessage)
		s.recordTransaction(ctx, payment, ledger.TransactionCharge, ledger.TransactionFailure, payment.Amount, result.GatewayPaymentID, result.ErrorMessage)
		return payment, apperrors.Validation("Payment was declined", map[string]any{
			"code":    result.ErrorCode,
			"message": result.ErrorMessage,
		})
	}

	payment.Status = ledger.PaymentCompleted
	payment.GatewayPaymentID = result.GatewayPaymentID
	payment.CompletedAt = &now
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, apperrors.Internal("Failed to record completed payment", err)
	}
	s.recordTransaction(ctx, payment, ledger.TransactionCharge, ledger.TransactionSuccess, payment.Amount, result.GatewayPaymentID, "")

	s.cfg.Log.Info("Payment completed",
		"payment_id", payment.ID,
		"reservation_id", payment.ReservationID,
		"gateway_payment_id", result.GatewayPaymentID,
	)
	return payment, nil
}

// Refund sends money back for a completed payment. A zero amount refunds
// the full charge; partial refunds may not exceed the original amount.
func (s *paymentService) Refund(ctx context.Context, paymentID string, amount float64) (*ledger.Payment, error) {
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != ledger.PaymentCompleted {
		return nil, apperrors.Conflict(fmt.Sprintf("only completed payments can be refunded, status is %s", payment.Status))
	}
	if amount == 0 {
		amount = payment.Amount
	}
	if amount < 0 || amount > payment.Amount {
		return nil, apperrors.InvalidInput(fmt.Sprintf("refund amount %.2f exceeds payment amount %.2f", amount, payment.Amount))
	}

	result, err := s.gateway.Refund(ctx, payment.GatewayPaymentID, amount, payment.Currency)
	if err != nil {
		return nil, apperrors.Unavailable("payment gateway")
	}
	if !result.Succeeded {
		s.recordTransaction(ctx, payment, ledger.TransactionRefund, ledger.TransactionFailure, amount, result.GatewayRefundID, result.ErrorMessage)
		return nil, apperrors.Internal("Refund was rejected by the gateway", errors.New(result.ErrorMessage))
	}

	now := time.Now().UTC()
	payment.Status = ledger.PaymentRefunded
	payment.RefundedAt = &now
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, apperrors.Internal("Failed to record refund", err)
	}
	s.recordTransaction(ctx, payment, ledger.TransactionRefund, ledger.TransactionSuccess, amount, result.GatewayRefundID, "")

	s.cfg.Log.Info("Payment refunded",
		"payment_id", payment.ID,
		"reservation_id", payment.ReservationID,
		"amount", amount,
	)
	return payment, nil
}

func (s *paymentService) GetByReservation(ctx context.Context, reservationID string) ([]*ledger.Payment, error) {
	if reservationID == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	payments, err := s.repo.FindByReservationID(ctx, reservationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}
	return payments, nil
}

func (s *paymentService) getPayment(ctx context.Context, paymentID string) (*ledger.Payment, error) {
	if paymentID == "" {
		return nil, apperrors.InvalidInput("Payment ID cannot be empty")
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ledger.ErrPaymentNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", paymentID)
		}
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}
	return payment, nil
}

func (s *paymentService) markFailed(ctx context.Context, payment *ledger.Payment, code, message string) {
	now := time.Now().UTC()
	payment.Status = ledger.PaymentFailed
	payment.ErrorCode = code
	payment.ErrorMessage = message
	payment.FailedAt = &now
	if err := s.repo.Update(ctx, payment); err != nil {
		s.cfg.Log.Error("Failed to record payment failure", "payment_id", payment.ID, "error", err)
	}
}

func (s *paymentService) recordTransaction(ctx context.Context, payment *ledger.Payment, txType ledger.TransactionType, status ledger.TransactionStatus, amount float64, gatewayTxID, failureReason string) {
	tx := &ledger.Transaction{
		ID:                   uuid.NewString(),
		PaymentID:            payment.ID,
		Type:                 txType,
		Status:               status,
		Amount:               amount,
		GatewayTransactionID: gatewayTxID,
		FailureReason:        failureReason,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		s.cfg.Log.Error("Failed to record payment transaction", "payment_id", payment.ID, "type", txType, "error", err)
	}
}
