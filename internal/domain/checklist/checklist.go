// Package checklist tracks a secretary's show preparation tasks. Items can
// carry an auto-detect key so other workflows complete them.
package checklist

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entity types items can be tagged with
const (
	EntityJudge = "judge"
)

// Auto-detect keys
const (
	KeyJudgeAcceptanceLetter = "judge_acceptance_letter"
)

// Item is one checklist task
type Item struct {
	ID            uuid.UUID
	ShowID        uuid.UUID
	Title         string
	EntityType    string
	EntityID      *uuid.UUID
	AutoDetectKey string
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// NewItem creates an open item
func NewItem(showID uuid.UUID, title, entityType string, entityID *uuid.UUID, key string) *Item {
	return &Item{
		ID:            uuid.New(),
		ShowID:        showID,
		Title:         title,
		EntityType:    entityType,
		EntityID:      entityID,
		AutoDetectKey: key,
		CreatedAt:     time.Now().UTC(),
	}
}

// IsCompleted reports whether the item is done
func (i *Item) IsCompleted() bool {
	return i.CompletedAt != nil
}

// AllCompleted is the auto-detect answer: at least one item and every
// item done.
func AllCompleted(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for i := range items {
		if !items[i].IsCompleted() {
			return false
		}
	}
	return true
}

// Key identifies the items one workflow can complete
type Key struct {
	ShowID        uuid.UUID
	EntityType    string
	EntityID      uuid.UUID
	AutoDetectKey string
}

// Repository persists checklist items
type Repository interface {
	Create(ctx context.Context, item *Item) error
	FindByEntity(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) ([]Item, error)
	// CompleteByKey stamps every open item matching key and returns how many changed
	CompleteByKey(ctx context.Context, key Key, at time.Time) (int64, error)
}
