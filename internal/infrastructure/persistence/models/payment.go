package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/payment"
	"gorm.io/datatypes"
)

// PaymentModel is one gateway charge or refund
type PaymentModel struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	EntryID          *uuid.UUID        `gorm:"type:uuid"`
	PaymentType      string            `gorm:"size:20;not null"`
	Status           string            `gorm:"size:20;not null"`
	Amount           int64             `gorm:"not null"`
	RefundedAmount   int64             `gorm:"not null;default:0"`
	GatewayReference *string           `gorm:"size:255;uniqueIndex"`
	RefundOf         *uuid.UUID        `gorm:"type:uuid"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt        time.Time         `gorm:"not null"`
	UpdatedAt        time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	meta := map[string]any(m.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	return &payment.Payment{
		ID:               m.ID,
		OrderID:          m.OrderID,
		EntryID:          m.EntryID,
		Type:             payment.Type(m.PaymentType),
		Status:           payment.Status(m.Status),
		Amount:           m.Amount,
		RefundedAmount:   m.RefundedAmount,
		GatewayReference: m.GatewayReference,
		RefundOf:         m.RefundOf,
		Metadata:         meta,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// PaymentModelFromDomain converts a domain Payment to a model
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	return &PaymentModel{
		ID:               p.ID,
		OrderID:          p.OrderID,
		EntryID:          p.EntryID,
		PaymentType:      string(p.Type),
		Status:           string(p.Status),
		Amount:           p.Amount,
		RefundedAmount:   p.RefundedAmount,
		GatewayReference: p.GatewayReference,
		RefundOf:         p.RefundOf,
		Metadata:         datatypes.JSONMap(p.Metadata),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
