package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"mamba-store/internal/dto"
	"mamba-store/internal/model"
	"mamba-store/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const webhookBodyLimit = 1 << 20 // 1MiB

type WebhookHandler struct {
	fulfillment service.FulfillmentService
	testEnabled bool
	logger      zerolog.Logger
}

func NewWebhookHandler(fulfillment service.FulfillmentService, testEnabled bool, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		fulfillment: fulfillment,
		testEnabled: testEnabled,
		logger:      logger,
	}
}

// HandleStripeWebhook receives provider deliveries. The raw body is read
// untouched: signature verification is the authentication for this endpoint
// and must see the exact bytes the provider signed.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body := http.MaxBytesReader(c.Response(), c.Request().Body, webhookBodyLimit)
	payload, err := io.ReadAll(body)
	if err != nil {
		return c.String(http.StatusBadRequest, "failed to read body")
	}

	err = h.fulfillment.HandleWebhook(ctx, payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrSignatureVerification) {
			h.logger.Warn().Err(err).Msg("stripe signature verification failed")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		// Post-verification failures are logged but still acknowledged so
		// the provider does not retry a partially-processed event.
		h.logger.Error().Err(err).Msg("webhook processing failed")
	}

	return c.String(http.StatusOK, "OK")
}

// HandleTestWebhook synthesizes a checkout-completed event without signature
// verification. Development aid only; mounted only outside production.
func (h *WebhookHandler) HandleTestWebhook(c echo.Context) error {
	if !h.testEnabled {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	ctx := c.Request().Context()

	var req dto.TestWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" {
		req.Email = "test@example.com"
	}
	if req.LinkID == "" {
		req.LinkID = "6oU28r2O8f6v3eI0C9cEw00"
	}

	session := &model.CheckoutSession{
		ID:            "cs_test_" + uuid.NewString(),
		CustomerEmail: req.Email,
		PaymentLink:   req.LinkID,
	}

	eventID := "evt_test_" + time.Now().Format("20060102150405") + "_" + uuid.NewString()
	if err := h.fulfillment.ProcessCheckoutCompleted(ctx, eventID, session); err != nil {
		h.logger.Error().Err(err).Msg("test webhook failed")
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Simulation failed"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
