package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/entry"
	"gorm.io/datatypes"
)

// EntryModel is the persistence model for an entry
type EntryModel struct {
	AggregateModel
	ShowID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	ExhibitorID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	DogID           *uuid.UUID          `gorm:"type:uuid"`
	OrderID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	EntryType       string              `gorm:"size:20;not null"`
	Status          string              `gorm:"size:20;not null"`
	IsNFC           bool                `gorm:"column:is_nfc;not null;default:false"`
	TotalFee        int64               `gorm:"not null;default:0"`
	CatalogueNumber *string             `gorm:"size:10"`
	EntryDate       time.Time           `gorm:"not null"`
	DeletedAt       *time.Time          `gorm:"index"`
	Classes         []EntryClassModel   `gorm:"foreignKey:EntryID"`
	JuniorHandler   *JuniorHandlerModel `gorm:"foreignKey:EntryID"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "entries"
}

// ToDomain converts the model to a domain Entry
func (m *EntryModel) ToDomain() *entry.Entry {
	e := &entry.Entry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ShowID:            m.ShowID,
		ExhibitorID:       m.ExhibitorID,
		DogID:             m.DogID,
		OrderID:           m.OrderID,
		Type:              entry.Type(m.EntryType),
		Status:            entry.Status(m.Status),
		IsNFC:             m.IsNFC,
		TotalFee:          m.TotalFee,
		CatalogueNumber:   m.CatalogueNumber,
		EntryDate:         m.EntryDate,
		DeletedAt:         m.DeletedAt,
		Classes:           make([]entry.EntryClass, len(m.Classes)),
	}
	for i := range m.Classes {
		e.Classes[i] = m.Classes[i].ToDomain()
	}
	if m.JuniorHandler != nil {
		e.JuniorHandler = m.JuniorHandler.ToDomain()
	}
	return e
}

// EntryModelFromDomain converts a domain Entry to a model. Classes and the
// junior handler are mapped separately so updates never cascade to them.
func EntryModelFromDomain(e *entry.Entry) *EntryModel {
	m := &EntryModel{
		ShowID:          e.ShowID,
		ExhibitorID:     e.ExhibitorID,
		DogID:           e.DogID,
		OrderID:         e.OrderID,
		EntryType:       string(e.Type),
		Status:          string(e.Status),
		IsNFC:           e.IsNFC,
		TotalFee:        e.TotalFee,
		CatalogueNumber: e.CatalogueNumber,
		EntryDate:       e.EntryDate,
		DeletedAt:       e.DeletedAt,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// EntryClassModel joins an entry to a show class
type EntryClassModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_entry_classes_entry_class"`
	ShowClassID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_entry_classes_entry_class"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Fee         int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EntryClassModel) TableName() string {
	return "entry_classes"
}

// ToDomain converts the model to a domain EntryClass
func (m *EntryClassModel) ToDomain() entry.EntryClass {
	return entry.EntryClass{
		ID:          m.ID,
		EntryID:     m.EntryID,
		ShowClassID: m.ShowClassID,
		OrderID:     m.OrderID,
		Fee:         m.Fee,
		CreatedAt:   m.CreatedAt,
	}
}

// EntryClassModelsFromDomain converts domain classes to models
func EntryClassModelsFromDomain(classes []entry.EntryClass) []EntryClassModel {
	out := make([]EntryClassModel, len(classes))
	for i, c := range classes {
		out[i] = EntryClassModel{
			ID:          c.ID,
			EntryID:     c.EntryID,
			ShowClassID: c.ShowClassID,
			OrderID:     c.OrderID,
			Fee:         c.Fee,
			CreatedAt:   c.CreatedAt,
		}
	}
	return out
}

// JuniorHandlerModel holds the handler of a junior handling entry
type JuniorHandlerModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	HandlerName string    `gorm:"size:200;not null"`
	DateOfBirth time.Time `gorm:"type:date;not null"`
	KCNumber    string    `gorm:"column:kc_number;size:50"`
}

// TableName returns the table name for GORM
func (JuniorHandlerModel) TableName() string {
	return "junior_handler_details"
}

// ToDomain converts the model to domain JuniorHandlerDetails
func (m *JuniorHandlerModel) ToDomain() *entry.JuniorHandlerDetails {
	return &entry.JuniorHandlerDetails{
		ID:          m.ID,
		EntryID:     m.EntryID,
		HandlerName: m.HandlerName,
		DateOfBirth: m.DateOfBirth,
		KCNumber:    m.KCNumber,
	}
}

// JuniorHandlerModelFromDomain converts domain details to a model
func JuniorHandlerModelFromDomain(d *entry.JuniorHandlerDetails) *JuniorHandlerModel {
	return &JuniorHandlerModel{
		ID:          d.ID,
		EntryID:     d.EntryID,
		HandlerName: d.HandlerName,
		DateOfBirth: d.DateOfBirth,
		KCNumber:    d.KCNumber,
	}
}

// AuditLogModel is an append-only entry change record
type AuditLogModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	EntryID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID         `gorm:"type:uuid;not null"`
	Action    string            `gorm:"size:30;not null"`
	Changes   datatypes.JSONMap `gorm:"type:jsonb"`
	Reason    string            `gorm:"type:text"`
	CreatedAt time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "entry_audit_logs"
}

// ToDomain converts the model to a domain AuditLog
func (m *AuditLogModel) ToDomain() entry.AuditLog {
	return entry.AuditLog{
		ID:        m.ID,
		EntryID:   m.EntryID,
		ActorID:   m.ActorID,
		Action:    entry.AuditAction(m.Action),
		Changes:   map[string]any(m.Changes),
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

// AuditLogModelFromDomain converts a domain AuditLog to a model
func AuditLogModelFromDomain(l *entry.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:        l.ID,
		EntryID:   l.EntryID,
		ActorID:   l.ActorID,
		Action:    string(l.Action),
		Changes:   datatypes.JSONMap(l.Changes),
		Reason:    l.Reason,
		CreatedAt: l.CreatedAt,
	}
}

// ResultModel is the outcome of one entry class
type ResultModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryClassID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Placement    *int
	SpecialAward string    `gorm:"size:100"`
	RecordedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ResultModel) TableName() string {
	return "results"
}

// ResultModelFromDomain converts a domain Result to a model
func ResultModelFromDomain(r *entry.Result) *ResultModel {
	return &ResultModel{
		ID:           r.ID,
		EntryClassID: r.EntryClassID,
		Placement:    r.Placement,
		SpecialAward: r.SpecialAward,
		RecordedAt:   r.RecordedAt,
	}
}

// OrderModel is the persistence model for a checkout order
type OrderModel struct {
	AggregateModel
	ExhibitorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ShowID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"size:20;not null"`
	TotalAmount     int64     `gorm:"not null;default:0"`
	PaymentIntentID *string   `gorm:"size:255;uniqueIndex"`
	PaidAt          *time.Time
	Sundries        []OrderSundryItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *entry.Order {
	o := &entry.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExhibitorID:       m.ExhibitorID,
		ShowID:            m.ShowID,
		Status:            entry.OrderStatus(m.Status),
		TotalAmount:       m.TotalAmount,
		PaymentIntentID:   m.PaymentIntentID,
		PaidAt:            m.PaidAt,
	}
	for _, s := range m.Sundries {
		o.Sundries = append(o.Sundries, entry.OrderSundryItem{
			ID:           s.ID,
			OrderID:      s.OrderID,
			SundryItemID: s.SundryItemID,
			Quantity:     s.Quantity,
			UnitPrice:    s.UnitPrice,
			Total:        s.Total,
		})
	}
	return o
}

// OrderModelFromDomain converts a domain Order to a model, sundry lines included
func OrderModelFromDomain(o *entry.Order) *OrderModel {
	m := &OrderModel{
		ExhibitorID:     o.ExhibitorID,
		ShowID:          o.ShowID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		PaymentIntentID: o.PaymentIntentID,
		PaidAt:          o.PaidAt,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for _, s := range o.Sundries {
		m.Sundries = append(m.Sundries, OrderSundryItemModel{
			ID:           s.ID,
			OrderID:      s.OrderID,
			SundryItemID: s.SundryItemID,
			Quantity:     s.Quantity,
			UnitPrice:    s.UnitPrice,
			Total:        s.Total,
		})
	}
	return m
}

// OrderSundryItemModel is a sundry purchase line
type OrderSundryItemModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SundryItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity     int       `gorm:"not null"`
	UnitPrice    int64     `gorm:"not null"`
	Total        int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderSundryItemModel) TableName() string {
	return "order_sundry_items"
}
