package clients

import (
	"context"
	"fmt"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
)

// Payment gateways.
const (
	GatewayPaystack = "paystack"
	GatewayPayPal   = "paypal"
	GatewayStripe   = "stripe"
)

// PaymentInitiator starts and verifies payments with one or more gateways.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
	VerifyPayment(ctx context.Context, gateway, reference string) (bool, error)
}

// GatewayRouter picks a gateway by currency. Naira goes to Paystack; foreign
// currencies go to Stripe when it is configured and PayPal otherwise. Paystack
// and PayPal are reached through the storefront API.
type GatewayRouter struct {
	api    PaymentInitiator
	stripe PaymentInitiator
}

// NewGatewayRouter builds a router. stripe may be nil.
func NewGatewayRouter(api, stripe PaymentInitiator) *GatewayRouter {
	return &GatewayRouter{api: api, stripe: stripe}
}

// GatewayFor returns the gateway that handles currency c.
func (r *GatewayRouter) GatewayFor(c models.Currency) string {
	if c == models.CurrencyNaira {
		return GatewayPaystack
	}
	if r.stripe != nil {
		return GatewayStripe
	}
	return GatewayPayPal
}

func (r *GatewayRouter) initiatorFor(gateway string) (PaymentInitiator, error) {
	switch gateway {
	case GatewayPaystack, GatewayPayPal:
		return r.api, nil
	case GatewayStripe:
		if r.stripe == nil {
			return nil, fmt.Errorf("stripe gateway is not configured")
		}
		return r.stripe, nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", gateway)
	}
}

// InitiatePayment routes req to its gateway, filling req.Gateway from the
// currency when it is empty.
func (r *GatewayRouter) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if req.Gateway == "" {
		req.Gateway = r.GatewayFor(req.Currency)
	}
	initiator, err := r.initiatorFor(req.Gateway)
	if err != nil {
		return nil, err
	}
	return initiator.InitiatePayment(ctx, req)
}

func (r *GatewayRouter) VerifyPayment(ctx context.Context, gateway, reference string) (bool, error) {
	initiator, err := r.initiatorFor(gateway)
	if err != nil {
		return false, err
	}
	return initiator.VerifyPayment(ctx, gateway, reference)
}
