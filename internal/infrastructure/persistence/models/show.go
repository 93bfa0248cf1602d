package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/show"
)

// ShowModel is the persistence model for a show
type ShowModel struct {
	AggregateModel
	OrganisationID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name               string    `gorm:"size:200;not null"`
	ShowType           string    `gorm:"size:30;not null"`
	Status             string    `gorm:"size:30;not null;index"`
	StartDate          time.Time `gorm:"type:date;not null"`
	EndDate            time.Time `gorm:"type:date;not null"`
	FirstEntryFee      *int64
	SubsequentEntryFee *int64
	NFCEntryFee        *int64 `gorm:"column:nfc_entry_fee"`
	SecretaryEmail     string `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (ShowModel) TableName() string {
	return "shows"
}

// ToDomain converts the model to a domain Show
func (m *ShowModel) ToDomain() *show.Show {
	return &show.Show{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		OrganisationID:     m.OrganisationID,
		Name:               m.Name,
		Type:               show.Type(m.ShowType),
		Status:             show.Status(m.Status),
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		FirstEntryFee:      m.FirstEntryFee,
		SubsequentEntryFee: m.SubsequentEntryFee,
		NFCEntryFee:        m.NFCEntryFee,
		SecretaryEmail:     m.SecretaryEmail,
	}
}

// ShowModelFromDomain converts a domain Show to a model
func ShowModelFromDomain(s *show.Show) *ShowModel {
	m := &ShowModel{
		OrganisationID:     s.OrganisationID,
		Name:               s.Name,
		ShowType:           string(s.Type),
		Status:             string(s.Status),
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		FirstEntryFee:      s.FirstEntryFee,
		SubsequentEntryFee: s.SubsequentEntryFee,
		NFCEntryFee:        s.NFCEntryFee,
		SecretaryEmail:     s.SecretaryEmail,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// ClassDefinitionModel is canonical class metadata
type ClassDefinitionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:100;not null;uniqueIndex"`
	ClassType    string    `gorm:"size:30;not null"`
	MinAgeMonths *int
	MaxAgeMonths *int
	MaxWins      *int
	SortOrder    int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ClassDefinitionModel) TableName() string {
	return "class_definitions"
}

// ToDomain converts the model to a domain ClassDefinition
func (m *ClassDefinitionModel) ToDomain() *show.ClassDefinition {
	return &show.ClassDefinition{
		ID:           m.ID,
		Name:         m.Name,
		Type:         show.ClassType(m.ClassType),
		MinAgeMonths: m.MinAgeMonths,
		MaxAgeMonths: m.MaxAgeMonths,
		MaxWins:      m.MaxWins,
		SortOrder:    m.SortOrder,
	}
}

// ShowClassModel is a class scheduled at a show
type ShowClassModel struct {
	ID                uuid.UUID             `gorm:"type:uuid;primaryKey"`
	ShowID            uuid.UUID             `gorm:"type:uuid;not null;index"`
	BreedID           *uuid.UUID            `gorm:"type:uuid"`
	ClassDefinitionID uuid.UUID             `gorm:"type:uuid;not null"`
	Definition        *ClassDefinitionModel `gorm:"foreignKey:ClassDefinitionID"`
	Sex               *string               `gorm:"size:10"`
	EntryFee          int64                 `gorm:"not null;default:0"`
	ClassNumber       int                   `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ShowClassModel) TableName() string {
	return "show_classes"
}

// ToDomain converts the model to a domain ShowClass
func (m *ShowClassModel) ToDomain() show.ShowClass {
	c := show.ShowClass{
		ID:                m.ID,
		ShowID:            m.ShowID,
		BreedID:           m.BreedID,
		ClassDefinitionID: m.ClassDefinitionID,
		EntryFee:          m.EntryFee,
		ClassNumber:       m.ClassNumber,
	}
	if m.Definition != nil {
		c.Definition = m.Definition.ToDomain()
	}
	if m.Sex != nil {
		sex := dog.Sex(*m.Sex)
		c.Sex = &sex
	}
	return c
}

// ShowClassModelFromDomain converts a domain ShowClass to a model
func ShowClassModelFromDomain(c *show.ShowClass) *ShowClassModel {
	m := &ShowClassModel{
		ID:                c.ID,
		ShowID:            c.ShowID,
		BreedID:           c.BreedID,
		ClassDefinitionID: c.ClassDefinitionID,
		EntryFee:          c.EntryFee,
		ClassNumber:       c.ClassNumber,
	}
	if c.Sex != nil {
		sex := string(*c.Sex)
		m.Sex = &sex
	}
	return m
}

// SundryItemModel is an optional extra sold with entries
type SundryItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShowID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"size:200;not null"`
	Price       int64     `gorm:"not null"`
	MaxPerOrder *int
	Enabled     bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SundryItemModel) TableName() string {
	return "sundry_items"
}

// ToDomain converts the model to a domain SundryItem
func (m *SundryItemModel) ToDomain() show.SundryItem {
	return show.SundryItem{
		ID:          m.ID,
		ShowID:      m.ShowID,
		Name:        m.Name,
		Price:       m.Price,
		MaxPerOrder: m.MaxPerOrder,
		Enabled:     m.Enabled,
	}
}

// SundryItemModelFromDomain converts a domain SundryItem to a model
func SundryItemModelFromDomain(i *show.SundryItem) *SundryItemModel {
	return &SundryItemModel{
		ID:          i.ID,
		ShowID:      i.ShowID,
		Name:        i.Name,
		Price:       i.Price,
		MaxPerOrder: i.MaxPerOrder,
		Enabled:     i.Enabled,
	}
}
