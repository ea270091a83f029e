package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lodgera/pkg/logger"
)

type manualGateway struct {
	log *logger.Logger
}

// NewManualGateway approves every charge and refund. It stands in for a
// real processor in development and in environments without Stripe keys.
func NewManualGateway(log *logger.Logger) Gateway {
	return &manualGateway{log: log}
}

func (g *manualGateway) Name() string { return "manual" }

func (g *manualGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	id := fmt.Sprintf("manual_pi_%s", uuid.NewString())
	g.log.Info("Manual gateway charge approved", "gateway_payment_id", id, "amount", req.Amount, "currency", req.Currency)
	return &ChargeResult{
		GatewayPaymentID: id,
		Succeeded:        true,
	}, nil
}

func (g *manualGateway) Refund(_ context.Context, gatewayPaymentID string, amount float64, _ string) (*RefundResult, error) {
	id := fmt.Sprintf("manual_re_%s", uuid.NewString())
	g.log.Info("Manual gateway refund approved", "gateway_payment_id", gatewayPaymentID, "gateway_refund_id", id, "amount", amount)
	return &RefundResult{
		GatewayRefundID: id,
		Succeeded:       true,
	}, nil
}
