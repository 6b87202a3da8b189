package checkout

import (
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
)

type stripeGateway struct{}

// NewStripeGateway returns the live Stripe-backed gateway. The Stripe
// API key must already be set on the stripe package at startup.
func NewStripeGateway() StripeGateway {
	return &stripeGateway{}
}

func (g *stripeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (g *stripeGateway) GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(sessionID, nil)
}
