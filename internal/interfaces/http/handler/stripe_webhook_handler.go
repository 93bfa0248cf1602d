package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Stripe payloads are small; anything bigger is not a real webhook
const maxWebhookPayloadSize = 65536

// WebhookProcessor verifies and applies a signed gateway event
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*checkoutapp.WebhookResult, error)
}

// StripeWebhookHandler handles Stripe webhook endpoints. Stripe calls
// them without authentication; the signature is the credential.
type StripeWebhookHandler struct {
	BaseHandler
	processor WebhookProcessor
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(processor WebhookProcessor, metrics OperationRecorder, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{BaseHandler: newBaseHandler(logger, metrics), processor: processor}
}

// StripeWebhookResponse acknowledges a webhook
type StripeWebhookResponse struct {
	Received         bool   `json:"received"`
	EventID          string `json:"event_id,omitempty"`
	EventType        string `json:"event_type,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
}

// HandleStripeWebhook handles POST /webhooks/stripe. A bad signature is a
// 400 so Stripe stops retrying. A processing failure is a 500 so Stripe
// retries; the event id was released for that.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Payload too large")
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Missing Stripe-Signature header")
		return
	}

	result, err := h.processor.ProcessWebhook(c.Request.Context(), payload, signature)
	h.record("stripe_webhook", err)
	if err != nil {
		if result == nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, StripeWebhookResponse{
		Received:         true,
		EventID:          result.EventID,
		EventType:        result.EventType,
		AlreadyProcessed: result.AlreadyProcessed,
	})
}
