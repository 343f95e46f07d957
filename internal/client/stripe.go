package client

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeVerifier checks a webhook delivery's signature against the shared
// endpoint secret and returns the verified event. Verification runs on the
// raw body, before any payload field is trusted.
type StripeVerifier interface {
	VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error)
}

type stripeVerifierImpl struct {
	webhookSecret string
}

func NewStripeVerifier(webhookSecret string) StripeVerifier {
	return &stripeVerifierImpl{
		webhookSecret: webhookSecret,
	}
}

func (v *stripeVerifierImpl) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify webhook signature: %w", err)
	}

	return event, nil
}
