package usecase

import "context"

// FulfillmentUsecase drives order fulfillment from payment provider webhooks.
type FulfillmentUsecase interface {
	// HandlePaymentEvent verifies and processes one webhook delivery. Only a
	// signature failure is returned to the caller; every post-verification
	// step is best effort so the provider never retries a half-fulfilled
	// session.
	HandlePaymentEvent(ctx context.Context, payload []byte, signature string) error
}
