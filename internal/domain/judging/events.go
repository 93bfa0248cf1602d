package judging

import (
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

const (
	// AggregateTypeJudgeContract is the aggregate type for contracts
	AggregateTypeJudgeContract = "JudgeContract"

	EventTypeOfferSent     = "JudgeOfferSent"
	EventTypeOfferAccepted = "JudgeOfferAccepted"
	EventTypeOfferDeclined = "JudgeOfferDeclined"
)

// OfferSentEvent carries the plaintext token to the mailer. It is never
// persisted.
type OfferSentEvent struct {
	shared.BaseDomainEvent
	ContractID  uuid.UUID   `json:"contract_id"`
	ShowID      uuid.UUID   `json:"show_id"`
	JudgeName   string      `json:"judge_name"`
	JudgeEmail  string      `json:"judge_email"`
	Token       Token       `json:"-"`
	Appointment Appointment `json:"appointment"`
}

// NewOfferSentEvent creates the event
func NewOfferSentEvent(c *JudgeContract, token Token) *OfferSentEvent {
	return &OfferSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferSent, AggregateTypeJudgeContract, c.ID),
		ContractID:      c.ID,
		ShowID:          c.ShowID,
		JudgeName:       c.JudgeName,
		JudgeEmail:      c.JudgeEmail,
		Token:           token,
		Appointment:     c.Appointment,
	}
}

// ResponseEvent is raised when the judge accepts or declines
type ResponseEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID `json:"contract_id"`
	ShowID     uuid.UUID `json:"show_id"`
	JudgeID    uuid.UUID `json:"judge_id"`
	JudgeName  string    `json:"judge_name"`
	Stage      Stage     `json:"stage"`
}

// NewOfferAcceptedEvent creates the accepted event
func NewOfferAcceptedEvent(c *JudgeContract) *ResponseEvent {
	return newResponseEvent(EventTypeOfferAccepted, c)
}

// NewOfferDeclinedEvent creates the declined event
func NewOfferDeclinedEvent(c *JudgeContract) *ResponseEvent {
	return newResponseEvent(EventTypeOfferDeclined, c)
}

func newResponseEvent(eventType string, c *JudgeContract) *ResponseEvent {
	return &ResponseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeJudgeContract, c.ID),
		ContractID:      c.ID,
		ShowID:          c.ShowID,
		JudgeID:         c.JudgeID,
		JudgeName:       c.JudgeName,
		Stage:           c.Stage,
	}
}
