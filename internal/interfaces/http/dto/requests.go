package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	checklistapp "github.com/showring/backend/internal/application/checklist"
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	judgingapp "github.com/showring/backend/internal/application/judging"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/judging"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// JuniorHandlerRequest names the handler of a junior handling entry
type JuniorHandlerRequest struct {
	HandlerName string `json:"handler_name" binding:"required,max=200"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	KCNumber    string `json:"kc_number" binding:"omitempty,max=50"`
}

// EntryRequest is one line of the cart
type EntryRequest struct {
	EntryType     string                `json:"entry_type" binding:"omitempty,oneof=standard junior_handler"`
	DogID         *string               `json:"dog_id" binding:"omitempty,uuid"`
	ClassIDs      []string              `json:"class_ids" binding:"required,min=1,uuid_list"`
	IsNFC         bool                  `json:"is_nfc"`
	JuniorHandler *JuniorHandlerRequest `json:"junior_handler"`
}

// SundryRequest buys a quantity of a sundry item
type SundryRequest struct {
	SundryItemID string `json:"sundry_item_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,min=1,max=1000"`
}

// CheckoutRequest is the body of POST /shows/:show_id/checkout
type CheckoutRequest struct {
	Entries  []EntryRequest  `json:"entries" binding:"dive"`
	Sundries []SundryRequest `json:"sundries" binding:"dive"`
}

// ToCommand converts the cart for exhibitorID at showID
func (r CheckoutRequest) ToCommand(exhibitorID, showID uuid.UUID) (checkoutapp.CheckoutCommand, error) {
	cmd := checkoutapp.CheckoutCommand{
		ExhibitorID: exhibitorID,
		ShowID:      showID,
		Entries:     make([]checkoutapp.EntryRequest, 0, len(r.Entries)),
		Sundries:    make([]checkoutapp.SundryRequest, 0, len(r.Sundries)),
	}
	for i, e := range r.Entries {
		classIDs, err := ParseUUIDs(e.ClassIDs)
		if err != nil {
			return cmd, fmt.Errorf("entries[%d].class_ids: %w", i, err)
		}
		req := checkoutapp.EntryRequest{
			EntryType: entry.Type(e.EntryType),
			ClassIDs:  classIDs,
			IsNFC:     e.IsNFC,
		}
		if req.EntryType == "" {
			req.EntryType = entry.TypeStandard
		}
		if e.DogID != nil {
			id, err := uuid.Parse(*e.DogID)
			if err != nil {
				return cmd, fmt.Errorf("entries[%d].dog_id: %w", i, err)
			}
			req.DogID = &id
		}
		if jh := e.JuniorHandler; jh != nil {
			dob, err := time.Parse(DateLayout, jh.DateOfBirth)
			if err != nil {
				return cmd, fmt.Errorf("entries[%d].junior_handler.date_of_birth: %w", i, err)
			}
			req.JuniorHandler = &checkoutapp.JuniorHandlerRequest{
				HandlerName: jh.HandlerName,
				DateOfBirth: dob,
				KCNumber:    jh.KCNumber,
			}
		}
		cmd.Entries = append(cmd.Entries, req)
	}
	for i, s := range r.Sundries {
		id, err := uuid.Parse(s.SundryItemID)
		if err != nil {
			return cmd, fmt.Errorf("sundries[%d].sundry_item_id: %w", i, err)
		}
		cmd.Sundries = append(cmd.Sundries, checkoutapp.SundryRequest{SundryItemID: id, Quantity: s.Quantity})
	}
	return cmd, nil
}

// AmendClassesRequest is the body of PUT /entries/:entry_id/classes
type AmendClassesRequest struct {
	ClassIDs []string `json:"class_ids" binding:"required,min=1,uuid_list"`
	Reason   string   `json:"reason" binding:"omitempty,max=500"`
}

// ToCommand converts the amendment made by actorID
func (r AmendClassesRequest) ToCommand(actorID, entryID uuid.UUID) (checkoutapp.AmendCommand, error) {
	classIDs, err := ParseUUIDs(r.ClassIDs)
	if err != nil {
		return checkoutapp.AmendCommand{}, fmt.Errorf("class_ids: %w", err)
	}
	return checkoutapp.AmendCommand{
		ActorID:  actorID,
		EntryID:  entryID,
		ClassIDs: classIDs,
		Reason:   r.Reason,
	}, nil
}

// SendOfferRequest is the body of POST /shows/:show_id/judge-contracts
type SendOfferRequest struct {
	JudgeID    string   `json:"judge_id" binding:"required,uuid"`
	JudgeName  string   `json:"judge_name" binding:"required,max=200"`
	JudgeEmail string   `json:"judge_email" binding:"required,email"`
	Breeds     []string `json:"breeds" binding:"required,min=1,dive,required,max=100"`
	Date       string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes      string   `json:"notes" binding:"omitempty,max=2000"`
}

// ToCommand converts the offer sent by the organisation orgID
func (r SendOfferRequest) ToCommand(orgID, showID uuid.UUID) (judgingapp.SendOfferCommand, error) {
	judgeID, err := uuid.Parse(r.JudgeID)
	if err != nil {
		return judgingapp.SendOfferCommand{}, fmt.Errorf("judge_id: %w", err)
	}
	return judgingapp.SendOfferCommand{
		ActorOrgID: orgID,
		ShowID:     showID,
		JudgeID:    judgeID,
		JudgeName:  r.JudgeName,
		JudgeEmail: r.JudgeEmail,
		Appointment: judging.Appointment{
			Breeds: r.Breeds,
			Date:   r.Date,
			Notes:  r.Notes,
		},
	}, nil
}

// AddChecklistItemRequest is the body of POST /shows/:show_id/checklist
type AddChecklistItemRequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	EntityType    string  `json:"entity_type" binding:"omitempty,max=50"`
	EntityID      *string `json:"entity_id" binding:"omitempty,uuid"`
	AutoDetectKey string  `json:"auto_detect_key" binding:"omitempty,max=100"`
}

// ToCommand converts the item added by the organisation orgID
func (r AddChecklistItemRequest) ToCommand(orgID, showID uuid.UUID) (checklistapp.AddItemCommand, error) {
	cmd := checklistapp.AddItemCommand{
		ActorOrgID:    orgID,
		ShowID:        showID,
		Title:         r.Title,
		EntityType:    r.EntityType,
		AutoDetectKey: r.AutoDetectKey,
	}
	if r.EntityID != nil {
		id, err := uuid.Parse(*r.EntityID)
		if err != nil {
			return cmd, fmt.Errorf("entity_id: %w", err)
		}
		cmd.EntityID = &id
	}
	return cmd, nil
}

// ParseUUIDs parses every element of raw
func ParseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
