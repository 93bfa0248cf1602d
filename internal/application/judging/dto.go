package judging

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/judging"
)

// SendOfferCommand offers a judging appointment
type SendOfferCommand struct {
	ActorOrgID  uuid.UUID
	ShowID      uuid.UUID
	JudgeID     uuid.UUID
	JudgeName   string
	JudgeEmail  string
	Appointment judging.Appointment
}

// ConfirmCommand finalises an accepted contract
type ConfirmCommand struct {
	ActorOrgID uuid.UUID
	ContractID uuid.UUID
}

// ContractResponse is the secretary's view of a contract
type ContractResponse struct {
	ID             uuid.UUID           `json:"id"`
	ShowID         uuid.UUID           `json:"show_id"`
	JudgeID        uuid.UUID           `json:"judge_id"`
	JudgeName      string              `json:"judge_name"`
	JudgeEmail     string              `json:"judge_email"`
	Appointment    judging.Appointment `json:"appointment"`
	Stage          judging.Stage       `json:"stage"`
	TokenExpiresAt time.Time           `json:"token_expires_at"`
	Expired        bool                `json:"expired"`
	OfferSentAt    time.Time           `json:"offer_sent_at"`
	AcceptedAt     *time.Time          `json:"accepted_at,omitempty"`
	DeclinedAt     *time.Time          `json:"declined_at,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
}

// ToContractResponse converts a contract for the dashboard
func ToContractResponse(c *judging.JudgeContract, now time.Time) ContractResponse {
	return ContractResponse{
		ID:             c.ID,
		ShowID:         c.ShowID,
		JudgeID:        c.JudgeID,
		JudgeName:      c.JudgeName,
		JudgeEmail:     c.JudgeEmail,
		Appointment:    c.Appointment,
		Stage:          c.Stage,
		TokenExpiresAt: c.TokenExpiresAt,
		Expired:        c.Stage == judging.StageOfferSent && c.IsExpired(now),
		OfferSentAt:    c.OfferSentAt,
		AcceptedAt:     c.AcceptedAt,
		DeclinedAt:     c.DeclinedAt,
		ConfirmedAt:    c.ConfirmedAt,
	}
}

// OfferView is what the public offer page renders. CanRespond selects
// between the offer form and the already-responded page.
type OfferView struct {
	ContractID  uuid.UUID
	ShowName    string
	ShowDate    time.Time
	JudgeName   string
	Appointment judging.Appointment
	Stage       judging.Stage
	ExpiresAt   time.Time
	CanRespond  bool
}
