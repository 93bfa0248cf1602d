// Package judging models the offer, acceptance and confirmation of a
// judge appointment driven by an emailed single-use link.
package judging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
)

// Stage of a judge contract
type Stage string

const (
	StageOfferSent     Stage = "offer_sent"
	StageOfferAccepted Stage = "offer_accepted"
	StageConfirmed     Stage = "confirmed"
	StageDeclined      Stage = "declined"
)

// IsResponded reports whether the judge has already answered the offer
func (s Stage) IsResponded() bool {
	return s != StageOfferSent
}

// Action is a judge's answer to an offer
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

// ParseAction validates a submitted action
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionAccept, ActionDecline:
		return a, nil
	}
	return "", ErrInvalidAction.Withf("action %q must be accept or decline", raw)
}

// Errors
var (
	ErrContractNotFound  = shared.NewDomainError("CONTRACT_NOT_FOUND", "Judge contract not found")
	ErrTokenNotFound     = shared.NewDomainError("TOKEN_NOT_FOUND", "This offer link is not valid")
	ErrTokenExpired      = shared.NewDomainError("TOKEN_EXPIRED", "This offer link has expired")
	ErrAlreadyResponded  = shared.NewDomainError("ALREADY_RESPONDED", "This offer has already been responded to")
	ErrInvalidTransition = shared.NewDomainError("INVALID_TRANSITION", "Contract cannot move to the requested stage")
	ErrContractExists    = shared.NewDomainError("CONTRACT_EXISTS", "Judge already has a live contract for this show")
	ErrInvalidAction     = shared.NewDomainError("INVALID_ACTION", "Unknown action")
)

// Appointment is what the judge is being asked to judge
type Appointment struct {
	Breeds []string `json:"breeds"`
	Date   string   `json:"date,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// JudgeContract is one offer cycle for a judge at a show
type JudgeContract struct {
	shared.BaseAggregateRoot
	ShowID         uuid.UUID
	OrganisationID uuid.UUID
	JudgeID        uuid.UUID
	JudgeName      string
	JudgeEmail     string
	Appointment    Appointment
	Stage          Stage
	TokenHash      string
	TokenExpiresAt time.Time
	OfferSentAt    time.Time
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	ConfirmedAt    *time.Time
}

// NewContract creates a contract at offer_sent. The caller holds the
// plaintext token; only its hash is kept.
func NewContract(showID, orgID, judgeID uuid.UUID, name, email string, appt Appointment, token Token, ttl time.Duration, now time.Time) *JudgeContract {
	c := &JudgeContract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ShowID:            showID,
		OrganisationID:    orgID,
		JudgeID:           judgeID,
		JudgeName:         name,
		JudgeEmail:        email,
		Appointment:       appt,
		Stage:             StageOfferSent,
		TokenHash:         token.Hash(),
		TokenExpiresAt:    now.Add(ttl),
		OfferSentAt:       now,
	}
	c.AddDomainEvent(NewOfferSentEvent(c, token))
	return c
}

// IsExpired reports whether the link has lapsed
func (c *JudgeContract) IsExpired(now time.Time) bool {
	return now.After(c.TokenExpiresAt)
}

// CheckToken rejects an expired link. Expiry wins over stage.
func (c *JudgeContract) CheckToken(now time.Time) error {
	if c.IsExpired(now) {
		return ErrTokenExpired.Withf("offer link expired on %s", c.TokenExpiresAt.Format("2 January 2006"))
	}
	return nil
}

// IsLive reports whether the contract blocks a new offer to the same judge
func (c *JudgeContract) IsLive(now time.Time) bool {
	switch c.Stage {
	case StageOfferAccepted, StageConfirmed:
		return true
	case StageOfferSent:
		return !c.IsExpired(now)
	}
	return false
}

// Accept moves offer_sent to offer_accepted
func (c *JudgeContract) Accept(now time.Time) error {
	if c.Stage != StageOfferSent {
		return ErrAlreadyResponded.Withf("offer is already %s", c.Stage)
	}
	c.Stage = StageOfferAccepted
	c.AcceptedAt = &now
	c.Touch(now)
	c.AddDomainEvent(NewOfferAcceptedEvent(c))
	return nil
}

// Decline moves offer_sent to declined
func (c *JudgeContract) Decline(now time.Time) error {
	if c.Stage != StageOfferSent {
		return ErrAlreadyResponded.Withf("offer is already %s", c.Stage)
	}
	c.Stage = StageDeclined
	c.DeclinedAt = &now
	c.Touch(now)
	c.AddDomainEvent(NewOfferDeclinedEvent(c))
	return nil
}

// Respond applies the judge's action
func (c *JudgeContract) Respond(action Action, now time.Time) error {
	if action == ActionAccept {
		return c.Accept(now)
	}
	return c.Decline(now)
}

// Confirm moves offer_accepted to confirmed
func (c *JudgeContract) Confirm(now time.Time) error {
	if c.Stage != StageOfferAccepted {
		return ErrInvalidTransition.Withf("cannot confirm a contract at %s", c.Stage)
	}
	c.Stage = StageConfirmed
	c.ConfirmedAt = &now
	c.Touch(now)
	return nil
}

// Repository persists judge contracts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*JudgeContract, error)
	FindByTokenHash(ctx context.Context, hash string) (*JudgeContract, error)
	FindByShowAndJudge(ctx context.Context, showID, judgeID uuid.UUID) ([]JudgeContract, error)
	ListByShow(ctx context.Context, showID uuid.UUID) ([]JudgeContract, error)
	Create(ctx context.Context, c *JudgeContract) error
	// LockJudge serialises offers to one judge for one show until the
	// surrounding transaction ends
	LockJudge(ctx context.Context, showID, judgeID uuid.UUID) error
	// SaveTransition persists the contract only if the stored stage still
	// equals from, returning shared.ErrConcurrencyConflict when another
	// request won.
	SaveTransition(ctx context.Context, c *JudgeContract, from Stage) error
}
