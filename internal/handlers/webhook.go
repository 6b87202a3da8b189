package handlers

import (
	"encoding/json"
	"log"

	"coursa/internal/services/checkout"
	"coursa/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

type WebhookHandler struct {
	checkoutService checkout.Service
	signingSecret   string
}

func NewWebhookHandler(checkoutService checkout.Service, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		checkoutService: checkoutService,
		signingSecret:   signingSecret,
	}
}

// HandleStripeEvent verifies and dispatches Stripe webhook deliveries.
// Settlement is idempotent downstream, so retried deliveries are safe.
func (h *WebhookHandler) HandleStripeEvent(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.signingSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		return response.BadRequest(c, "invalid signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("webhook: malformed session payload: %v", err)
			return response.BadRequest(c, "malformed payload")
		}
		if err := h.checkoutService.HandleSessionCompleted(&sess); err != nil {
			log.Printf("webhook: settlement failed for session %s: %v", sess.ID, err)
			return response.ServerError(c, "settlement failed")
		}

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("webhook: malformed session payload: %v", err)
			return response.BadRequest(c, "malformed payload")
		}
		if err := h.checkoutService.HandleSessionExpired(&sess); err != nil {
			log.Printf("webhook: expiry handling failed for session %s: %v", sess.ID, err)
			return response.ServerError(c, "expiry handling failed")
		}

	default:
		// Unhandled event types are acknowledged so Stripe stops retrying.
	}

	return c.SendStatus(fiber.StatusOK)
}
