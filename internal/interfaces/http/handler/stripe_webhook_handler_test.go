package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	checkoutapp "github.com/showring/backend/internal/application/checkout"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWebhookProcessor struct {
	mock.Mock
}

func (m *mockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*checkoutapp.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	res, _ := args.Get(0).(*checkoutapp.WebhookResult)
	return res, args.Error(1)
}

func webhookEngine(p WebhookProcessor, rec OperationRecorder) http.Handler {
	h := NewStripeWebhookHandler(p, rec, nil)
	r := newEngine(auth.Identity{})
	r.POST("/webhooks/stripe", h.HandleStripeWebhook)
	return r
}

func TestStripeWebhookHandler(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	sig := map[string]string{"Stripe-Signature": "t=1,v1=abc"}

	t.Run("processed", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		rec := &fakeRecorder{}
		p.On("ProcessWebhook", mock.Anything, payload, "t=1,v1=abc").
			Return(&checkoutapp.WebhookResult{EventID: "evt_1", EventType: "payment_intent.succeeded", Processed: true}, nil)

		w := testutil.PerformRequest(t, webhookEngine(p, rec), http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload), sig)
		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.DecodeData[StripeWebhookResponse](t, w)
		assert.True(t, resp.Received)
		assert.Equal(t, "evt_1", resp.EventID)
		assert.Equal(t, []string{"stripe_webhook"}, rec.operations())
		p.AssertExpectations(t)
	})

	t.Run("replayed event is acknowledged", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		p.On("ProcessWebhook", mock.Anything, payload, mock.Anything).
			Return(&checkoutapp.WebhookResult{EventID: "evt_1", AlreadyProcessed: true}, nil)

		w := testutil.PerformRequest(t, webhookEngine(p, nil), http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload), sig)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.DecodeData[StripeWebhookResponse](t, w).AlreadyProcessed)
	})

	t.Run("missing signature", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		w := testutil.PerformRequest(t, webhookEngine(p, nil), http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload), nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidSignature)
		p.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad signature", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		p.On("ProcessWebhook", mock.Anything, payload, mock.Anything).Return(nil, errors.New("signature mismatch"))

		w := testutil.PerformRequest(t, webhookEngine(p, nil), http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload), sig)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidSignature)
	})

	t.Run("processing failure asks for a retry", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		p.On("ProcessWebhook", mock.Anything, payload, mock.Anything).
			Return(&checkoutapp.WebhookResult{EventID: "evt_1"}, errors.New("database unavailable"))

		w := testutil.PerformRequest(t, webhookEngine(p, nil), http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload), sig)
		testutil.AssertErrorResponse(t, w, http.StatusInternalServerError, dto.ErrCodeInternal)
	})

	t.Run("oversized payload", func(t *testing.T) {
		p := new(mockWebhookProcessor)
		big := bytes.Repeat([]byte("a"), maxWebhookPayloadSize+1)
		w := testutil.PerformRequest(t, webhookEngine(p, nil), http.MethodPost, "/webhooks/stripe", bytes.NewReader(big), sig)
		testutil.AssertErrorResponse(t, w, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge)
	})
}
