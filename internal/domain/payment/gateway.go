package payment

import "context"

// IntentRequest opens a charge for Amount minor units
type IntentRequest struct {
	Amount         int64
	Currency       string
	IdempotencyKey string
	Description    string
	Metadata       map[string]string
}

// Intent is an opened charge the client completes with ClientSecret
type Intent struct {
	ID           string
	ClientSecret string
}

// RefundRequest returns Amount minor units from a captured charge
type RefundRequest struct {
	PaymentReference string
	Amount           int64
	IdempotencyKey   string
}

// RefundResult is the gateway's refund record
type RefundResult struct {
	ID string
}

// Gateway is the external payment provider. Calls with the same
// idempotency key return the original result instead of charging again.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	// CancelIntent stops an unpaid intent from being completed
	CancelIntent(ctx context.Context, intentID string) error
}
