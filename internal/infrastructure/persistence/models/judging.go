package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
	"gorm.io/datatypes"
)

// JudgeContractModel is the persistence model for a judge contract
type JudgeContractModel struct {
	AggregateModel
	ShowID         uuid.UUID                               `gorm:"type:uuid;not null;index"`
	OrganisationID uuid.UUID                               `gorm:"type:uuid;not null"`
	JudgeID        uuid.UUID                               `gorm:"type:uuid;not null;index"`
	JudgeName      string                                  `gorm:"size:200;not null"`
	JudgeEmail     string                                  `gorm:"size:255;not null"`
	Appointment    datatypes.JSONType[judging.Appointment] `gorm:"type:jsonb"`
	Stage          string                                  `gorm:"size:20;not null"`
	TokenHash      string                                  `gorm:"size:64;not null;uniqueIndex"`
	TokenExpiresAt time.Time                               `gorm:"not null"`
	OfferSentAt    time.Time                               `gorm:"not null"`
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	ConfirmedAt    *time.Time
}

// TableName returns the table name for GORM
func (JudgeContractModel) TableName() string {
	return "judge_contracts"
}

// ToDomain converts the model to a domain JudgeContract
func (m *JudgeContractModel) ToDomain() *judging.JudgeContract {
	return &judging.JudgeContract{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ShowID:            m.ShowID,
		OrganisationID:    m.OrganisationID,
		JudgeID:           m.JudgeID,
		JudgeName:         m.JudgeName,
		JudgeEmail:        m.JudgeEmail,
		Appointment:       m.Appointment.Data(),
		Stage:             judging.Stage(m.Stage),
		TokenHash:         m.TokenHash,
		TokenExpiresAt:    m.TokenExpiresAt,
		OfferSentAt:       m.OfferSentAt,
		AcceptedAt:        m.AcceptedAt,
		DeclinedAt:        m.DeclinedAt,
		ConfirmedAt:       m.ConfirmedAt,
	}
}

// JudgeContractModelFromDomain converts a domain JudgeContract to a model
func JudgeContractModelFromDomain(c *judging.JudgeContract) *JudgeContractModel {
	m := &JudgeContractModel{
		ShowID:         c.ShowID,
		OrganisationID: c.OrganisationID,
		JudgeID:        c.JudgeID,
		JudgeName:      c.JudgeName,
		JudgeEmail:     c.JudgeEmail,
		Appointment:    datatypes.NewJSONType(c.Appointment),
		Stage:          string(c.Stage),
		TokenHash:      c.TokenHash,
		TokenExpiresAt: c.TokenExpiresAt,
		OfferSentAt:    c.OfferSentAt,
		AcceptedAt:     c.AcceptedAt,
		DeclinedAt:     c.DeclinedAt,
		ConfirmedAt:    c.ConfirmedAt,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// ChecklistItemModel is one show preparation task
type ChecklistItemModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ShowID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title         string     `gorm:"size:200;not null"`
	EntityType    string     `gorm:"size:30"`
	EntityID      *uuid.UUID `gorm:"type:uuid"`
	AutoDetectKey string     `gorm:"size:100"`
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChecklistItemModel) TableName() string {
	return "checklist_items"
}

// ToDomain converts the model to a domain Item
func (m *ChecklistItemModel) ToDomain() checklist.Item {
	return checklist.Item{
		ID:            m.ID,
		ShowID:        m.ShowID,
		Title:         m.Title,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		AutoDetectKey: m.AutoDetectKey,
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
	}
}

// ChecklistItemModelFromDomain converts a domain Item to a model
func ChecklistItemModelFromDomain(i *checklist.Item) *ChecklistItemModel {
	return &ChecklistItemModel{
		ID:            i.ID,
		ShowID:        i.ShowID,
		Title:         i.Title,
		EntityType:    i.EntityType,
		EntityID:      i.EntityID,
		AutoDetectKey: i.AutoDetectKey,
		CompletedAt:   i.CompletedAt,
		CreatedAt:     i.CreatedAt,
	}
}
