package handler

import (
	"io"
	"log/slog"
	"net/http"

	logctx "storefront/internal/delivery/context"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HeaderStripeSignature carries the webhook payload signature.
const HeaderStripeSignature = "Stripe-Signature"

// WebhookHandler receives payment provider webhook deliveries.
type WebhookHandler struct {
	uc     usecase.FulfillmentUsecase
	logger *slog.Logger
}

// NewWebhookHandler is the constructor for WebhookHandler, injected by Fx.
func NewWebhookHandler(uc usecase.FulfillmentUsecase, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, logger: logger}
}

// Handle verifies and processes one delivery. The raw body is passed through
// untouched; signature verification depends on the exact bytes sent. Every
// outcome except a signature failure acknowledges with 200 so the provider
// does not retry.
func (h *WebhookHandler) Handle(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
	}

	signature := c.Request().Header.Get(HeaderStripeSignature)

	logger := logctx.GetLoggerOrDefault(c.Request().Context(), h.logger)
	logger.Debug("webhook delivery received", slog.Int("bytes", len(payload)))

	if err := h.uc.HandlePaymentEvent(c.Request().Context(), payload, signature); err != nil {
		logger.Warn("webhook rejected", slog.Any("error", err))

		return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
	}

	return c.String(http.StatusOK, "ok")
}
