package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPayment_Refundable(t *testing.T) {
	p := NewPayment(uuid.New(), nil, TypeInitial, 5500)
	assert.Equal(t, int64(0), p.Refundable(), "pending payments cannot be refunded")

	p.MarkSucceeded(time.Now())
	assert.Equal(t, int64(5500), p.Refundable())

	p.RefundedAmount = 1500
	assert.Equal(t, int64(4000), p.Refundable())

	r := NewRefund(p, nil, 100)
	r.MarkSucceeded(time.Now())
	assert.Equal(t, int64(0), r.Refundable())
	assert.Equal(t, p.ID, *r.RefundOf)
	assert.Equal(t, p.OrderID, r.OrderID)
}

func TestPayment_StatusTransitionsAreIdempotent(t *testing.T) {
	p := NewPayment(uuid.New(), nil, TypeAdjustment, 100)
	assert.True(t, p.MarkSucceeded(time.Now()))
	assert.False(t, p.MarkSucceeded(time.Now()))
	assert.False(t, p.MarkFailed(time.Now()))
	assert.Equal(t, StatusSucceeded, p.Status)

	q := NewPayment(uuid.New(), nil, TypeInitial, 100)
	assert.True(t, q.MarkFailed(time.Now()))
	assert.False(t, q.MarkFailed(time.Now()))
}

func TestPayment_IdempotencyKey(t *testing.T) {
	p := NewPayment(uuid.New(), nil, TypeInitial, 100)
	assert.Equal(t, "payment:"+p.ID.String(), p.IdempotencyKey())
}

func TestPayment_Cancel(t *testing.T) {
	now := time.Now()

	pending := NewPayment(uuid.New(), nil, TypeAdjustment, 1500)
	assert.True(t, pending.IsOutstanding())
	assert.True(t, pending.Cancel(now))
	assert.False(t, pending.Cancel(now))
	assert.False(t, pending.IsOutstanding())
	assert.False(t, pending.MarkFailed(now))
	assert.False(t, pending.Reopen(now))

	failed := NewPayment(uuid.New(), nil, TypeAdjustment, 1500)
	failed.MarkFailed(now)
	assert.True(t, failed.IsOutstanding())
	assert.True(t, failed.Cancel(now))
	assert.Equal(t, StatusCancelled, failed.Status)

	captured := NewPayment(uuid.New(), nil, TypeAdjustment, 1500)
	captured.MarkSucceeded(now)
	assert.False(t, captured.IsOutstanding())
	assert.False(t, captured.Cancel(now))
	assert.Equal(t, StatusSucceeded, captured.Status)

	assert.False(t, NewPayment(uuid.New(), nil, TypeInitial, 100).IsOutstanding())
}
