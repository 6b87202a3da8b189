package checkout

import (
	"github.com/stripe/stripe-go/v72"
)

// StripeGateway wraps the Stripe checkout-session API so the service can
// be exercised in tests without network calls.
type StripeGateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
}
