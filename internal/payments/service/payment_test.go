package service

import (
	"context"
	"testing"

	"lodgera/internal/payments/gateway"
	"lodgera/internal/payments/ledger"
	"lodgera/pkg/config"
	apperrors "lodgera/pkg/errors"
	"lodgera/pkg/logger"
)

// Mock ledger repository for testing

type mockLedgerRepository struct {
	payments     map[string]*ledger.Payment
	transactions []*ledger.Transaction
	hasCompleted bool
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{payments: map[string]*ledger.Payment{}}
}

func (m *mockLedgerRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockLedgerRepository) FindByID(ctx context.Context, id string) (*ledger.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, ledger.ErrPaymentNotFound
	}
	return payment, nil
}

func (m *mockLedgerRepository) FindByReservationID(ctx context.Context, reservationID string) ([]*ledger.Payment, error) {
	var out []*ledger.Payment
	for _, p := range m.payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockLedgerRepository) HasCompletedPayment(ctx context.Context, reservationID string) (bool, error) {
	return m.hasCompleted, nil
}

func (m *mockLedgerRepository) Update(ctx context.Context, payment *ledger.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockLedgerRepository) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	m.transactions = append(m.transactions, tx)
	return nil
}

type mockGateway struct {
	chargeFunc func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error)
	refundFunc func(ctx context.Context, gatewayPaymentID string, amount float64, currency string) (*gateway.RefundResult, error)
	refunds    int
}

func (m *mockGateway) Name() string { return "mock" }

func (m *mockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if m.chargeFunc != nil {
		return m.chargeFunc(ctx, req)
	}
	return &gateway.ChargeResult{GatewayPaymentID: "pi_test", Succeeded: true}, nil
}

func (m *mockGateway) Refund(ctx context.Context, gatewayPaymentID string, amount float64, currency string) (*gateway.RefundResult, error) {
	m.refunds++
	if m.refundFunc != nil {
		return m.refundFunc(ctx, gatewayPaymentID, amount, currency)
	}
	return &gateway.RefundResult{GatewayRefundID: "re_test", Succeeded: true}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "info",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func TestCreateForCheckout(t *testing.T) {
	repo := newMockLedgerRepository()
	svc := NewPaymentService(repo, &mockGateway{}, testConfig())

	payment, err := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != ledger.PaymentPending {
		t.Errorf("expected pending, got %s", payment.Status)
	}
	if payment.Gateway != "mock" {
		t.Errorf("expected gateway name recorded, got %s", payment.Gateway)
	}
	if payment.Amount != 300 || payment.Currency != "USD" {
		t.Errorf("expected 300 USD, got %.2f %s", payment.Amount, payment.Currency)
	}
}

func TestCreateForCheckout_Rejections(t *testing.T) {
	repo := newMockLedgerRepository()
	svc := NewPaymentService(repo, &mockGateway{}, testConfig())

	if _, err := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 0, "USD", "card"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for zero amount, got %v", err)
	}

	repo.hasCompleted = true
	if _, err := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card"); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT for an already-paid reservation, got %v", err)
	}
}

func TestProcess_Success(t *testing.T) {
	repo := newMockLedgerRepository()
	svc := NewPaymentService(repo, &mockGateway{}, testConfig())

	payment, _ := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")
	payment, err := svc.Process(context.Background(), payment.ID, "tok_visa", "Reservation res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != ledger.PaymentCompleted {
		t.Errorf("expected completed, got %s", payment.Status)
	}
	if payment.GatewayPaymentID != "pi_test" {
		t.Errorf("expected gateway payment id recorded, got %s", payment.GatewayPaymentID)
	}
	if payment.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
	if len(repo.transactions) != 1 || repo.transactions[0].Type != ledger.TransactionCharge || repo.transactions[0].Status != ledger.TransactionSuccess {
		t.Errorf("expected one successful charge transaction, got %+v", repo.transactions)
	}
}

func TestProcess_Declined(t *testing.T) {
	repo := newMockLedgerRepository()
	gw := &mockGateway{
		chargeFunc: func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
			return &gateway.ChargeResult{Succeeded: false, ErrorCode: "card_declined", ErrorMessage: "Your card was declined."}, nil
		},
	}
	svc := NewPaymentService(repo, gw, testConfig())

	payment, _ := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")
	_, err := svc.Process(context.Background(), payment.ID, "tok_chargeDeclined", "")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for a declined card, got %v", err)
	}

	stored := repo.payments[payment.ID]
	if stored.Status != ledger.PaymentFailed {
		t.Errorf("expected failed, got %s", stored.Status)
	}
	if stored.ErrorCode != "card_declined" {
		t.Errorf("expected decline code recorded, got %s", stored.ErrorCode)
	}
	if stored.FailedAt == nil {
		t.Error("expected failed_at to be set")
	}
	if len(repo.transactions) != 1 || repo.transactions[0].Status != ledger.TransactionFailure {
		t.Errorf("expected one failed charge transaction, got %+v", repo.transactions)
	}
}

func TestProcess_OnlyFromPending(t *testing.T) {
	repo := newMockLedgerRepository()
	svc := NewPaymentService(repo, &mockGateway{}, testConfig())

	payment, _ := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")
	if _, err := svc.Process(context.Background(), payment.ID, "tok_visa", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Process(context.Background(), payment.ID, "tok_visa", ""); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT when charging twice, got %v", err)
	}
}

func TestRefund(t *testing.T) {
	repo := newMockLedgerRepository()
	gw := &mockGateway{}
	svc := NewPaymentService(repo, gw, testConfig())

	payment, _ := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")
	payment, _ = svc.Process(context.Background(), payment.ID, "tok_visa", "")

	refunded, err := svc.Refund(context.Background(), payment.ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refunded.Status != ledger.PaymentRefunded {
		t.Errorf("expected refunded, got %s", refunded.Status)
	}
	if refunded.RefundedAt == nil {
		t.Error("expected refunded_at to be set")
	}
	if gw.refunds != 1 {
		t.Errorf("expected one gateway refund, got %d", gw.refunds)
	}
}

func TestRefund_Rejections(t *testing.T) {
	repo := newMockLedgerRepository()
	svc := NewPaymentService(repo, &mockGateway{}, testConfig())

	payment, _ := svc.CreateForCheckout(context.Background(), "res-1", "guest-1", 300, "USD", "card")

	if _, err := svc.Refund(context.Background(), payment.ID, 0); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT refunding a pending payment, got %v", err)
	}

	payment, _ = svc.Process(context.Background(), payment.ID, "tok_visa", "")
	if _, err := svc.Refund(context.Background(), payment.ID, 500); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for an over-refund, got %v", err)
	}

	if _, err := svc.Refund(context.Background(), "missing", 0); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
