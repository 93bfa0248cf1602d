package shared

import (
	"context"

	"github.com/google/uuid"
)

// Notifier delivers templated messages (email). Delivery is best-effort:
// callers log failures and never roll back the triggering change.
type Notifier interface {
	Send(ctx context.Context, templateKey, to string, data map[string]any) error
}

// Notification template keys
const (
	TemplateJudgeOffer         = "judge_offer"
	TemplateJudgeOfferAccepted = "judge_offer_accepted"
	TemplateJudgeOfferDeclined = "judge_offer_declined"
	TemplateEntryConfirmation  = "entry_confirmation"
)

// ContactDirectory resolves a user's email address
type ContactDirectory interface {
	EmailFor(ctx context.Context, userID uuid.UUID) (string, error)
}
