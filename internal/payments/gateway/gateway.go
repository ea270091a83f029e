package gateway

import (
	"context"
	"fmt"

	"lodgera/pkg/config"
	"lodgera/pkg/logger"
)

// ChargeRequest describes a single charge. Amount is in major units of
// Currency; the gateway converts to minor units itself.
type ChargeRequest struct {
	Amount         float64
	Currency       string
	MethodToken    string
	IdempotencyKey string
	Description    string
}

// ChargeResult is the gateway side of a settled or failed charge.
type ChargeResult struct {
	GatewayPaymentID string
	Succeeded        bool
	ErrorCode        string
	ErrorMessage     string
}

// RefundResult mirrors ChargeResult for a refund round trip.
type RefundResult struct {
	GatewayRefundID string
	Succeeded       bool
	ErrorCode       string
	ErrorMessage    string
}

// Gateway is the payment processor behind the checkout flow.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, gatewayPaymentID string, amount float64, currency string) (*RefundResult, error)
}

// New selects the configured gateway implementation.
func New(cfg *config.Config, log *logger.Logger) (Gateway, error) {
	switch cfg.PaymentGateway {
	case "stripe":
		return NewStripeGateway(cfg.StripeSecretKey, log), nil
	case "manual":
		return NewManualGateway(log), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway: %s", cfg.PaymentGateway)
	}
}

// minorUnits converts a major-unit amount to the smallest currency unit.
func minorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
