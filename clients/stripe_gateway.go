package clients

import (
	"context"
	"fmt"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"go.uber.org/zap"
)

// StripeGateway takes foreign-currency payments through Stripe Checkout.
type StripeGateway struct {
	successURL string
	cancelURL  string
	logger     *zap.Logger

	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSession func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripeGateway(secretKey, successURL, cancelURL string, logger *zap.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
		newSession: session.New,
		getSession: session.Get,
	}
}

// stripeCurrency maps a storefront currency to its ISO code. Stripe does not
// settle naira for this account.
func stripeCurrency(c models.Currency) (string, error) {
	switch c {
	case models.CurrencyUSD:
		return "usd", nil
	case models.CurrencyGBP:
		return "gbp", nil
	default:
		return "", fmt.Errorf("stripe does not accept %s", c)
	}
}

// InitiatePayment creates a one-line Checkout session for the order total.
// The session id is returned as the result's reference.
func (g *StripeGateway) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	currency, err := stripeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL + "?reference=" + req.Reference),
		CancelURL:         stripe.String(g.cancelURL + "?reference=" + req.Reference),
		ClientReferenceID: stripe.String(req.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order " + req.Reference),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.newSession(params)
	if err != nil {
		g.logger.Error("stripe checkout session failed", zap.String("reference", req.Reference), zap.Error(err))
		return nil, fmt.Errorf("create stripe session: %w", err)
	}

	return &models.PaymentResult{
		Success:          true,
		AuthorizationURL: sess.URL,
		Reference:        sess.ID,
	}, nil
}

// VerifyPayment checks the Checkout session's payment status.
func (g *StripeGateway) VerifyPayment(ctx context.Context, _, reference string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := g.getSession(reference, params)
	if err != nil {
		return false, fmt.Errorf("get stripe session %s: %w", reference, err)
	}
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
