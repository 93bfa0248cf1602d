package notification

import (
	"context"
	"testing"

	"github.com/showring/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRender(t *testing.T) {
	msg, err := Render(shared.TemplateJudgeOffer, "judge@example.org", map[string]any{
		"judge_name":  "Ann Judge",
		"show_name":   "Midland Whippet Club",
		"breeds":      "Whippet",
		"date":        "14 November 2026",
		"accept_link": "https://shows.example.org/judge-contract/tok?action=accept",
		"offer_link":  "https://shows.example.org/judge-contract/tok",
	})
	require.NoError(t, err)
	assert.Equal(t, "Judging appointment: Midland Whippet Club", msg.Subject)
	assert.Contains(t, msg.Body, "judge Whippet on 14 November 2026")
	assert.Contains(t, msg.Body, "?action=accept")
	assert.NotContains(t, msg.Body, "<no value>")

	_, err = Render("unknown", "a@example.org", nil)
	assert.ErrorContains(t, err, "unknown")
}

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var sent []Message
	sender := NewLogSender(zap.New(core), func(m Message) { sent = append(sent, m) })

	err := sender.Send(context.Background(), shared.TemplateEntryConfirmation, "owner@example.org", map[string]any{
		"show_name": "Bath Championship Show",
		"order_id":  "ord-1",
		"total":     "£25.00",
	})
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "total paid £25.00")

	entries := logs.FilterMessage("Email sent").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "owner@example.org", fields["to"])
	assert.NotContains(t, fields, "body")
}

func TestLogSender_RejectsBadRecipient(t *testing.T) {
	err := NewLogSender(nil, nil).Send(context.Background(), shared.TemplateEntryConfirmation, "not-an-address", nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
