package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/paymentintent"
	"github.com/stripe/stripe-go/refund"

	"lodgera/pkg/logger"
)

type stripeGateway struct {
	log *logger.Logger
}

// NewStripeGateway charges through Stripe PaymentIntents. The secret key is
// process wide, matching how the stripe-go bindings are keyed.
func NewStripeGateway(secretKey string, log *logger.Logger) Gateway {
	stripe.Key = secretKey
	return &stripeGateway{log: log}
}

func (g *stripeGateway) Name() string { return "stripe" }

func (g *stripeGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(minorUnits(req.Amount)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.MethodToken),
		Description:   stripe.String(req.Description),
		Confirm:       stripe.Bool(true),
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			g.log.Warn("Stripe charge declined",
				"code", stripeErr.Code,
				"type", stripeErr.Type,
			)
			return &ChargeResult{
				Succeeded:    false,
				ErrorCode:    string(stripeErr.Code),
				ErrorMessage: stripeErr.Msg,
			}, nil
		}
		return nil, err
	}

	succeeded := pi.Status == stripe.PaymentIntentStatusSucceeded
	result := &ChargeResult{
		GatewayPaymentID: pi.ID,
		Succeeded:        succeeded,
	}
	if !succeeded {
		result.ErrorCode = string(pi.Status)
		result.ErrorMessage = "payment intent did not reach succeeded status"
	}
	return result, nil
}

func (g *stripeGateway) Refund(_ context.Context, gatewayPaymentID string, amount float64, currency string) (*RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(gatewayPaymentID),
		Amount:        stripe.Int64(minorUnits(amount)),
	}

	ref, err := refund.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return &RefundResult{
				Succeeded:    false,
				ErrorCode:    string(stripeErr.Code),
				ErrorMessage: stripeErr.Msg,
			}, nil
		}
		return nil, err
	}

	return &RefundResult{
		GatewayRefundID: ref.ID,
		Succeeded:       ref.Status == stripe.RefundStatusSucceeded || ref.Status == stripe.RefundStatusPending,
	}, nil
}
