// Package checklist answers auto-detect lookups and lets secretaries tag
// checklist items to entities.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// Service manages checklist items
type Service struct {
	shows  show.Repository
	items  checklist.Repository
	logger *zap.Logger
}

// NewService creates a checklist Service
func NewService(shows show.Repository, items checklist.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{shows: shows, items: items, logger: logger}
}

// AddItemCommand creates a checklist item
type AddItemCommand struct {
	ActorOrgID    uuid.UUID
	ShowID        uuid.UUID
	Title         string
	EntityType    string
	EntityID      *uuid.UUID
	AutoDetectKey string
}

// ItemResponse is one checklist item
type ItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	ShowID        uuid.UUID  `json:"show_id"`
	Title         string     `json:"title"`
	EntityType    string     `json:"entity_type,omitempty"`
	EntityID      *uuid.UUID `json:"entity_id,omitempty"`
	AutoDetectKey string     `json:"auto_detect_key,omitempty"`
	Completed     bool       `json:"completed"`
}

// IsComplete reports whether the entity's items at the show are all done.
// An entity with no items is not complete.
func (s *Service) IsComplete(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) (bool, error) {
	if strings.TrimSpace(entityType) == "" {
		return false, shared.ErrInvalidInput.Withf("entity_type is required")
	}
	items, err := s.items.FindByEntity(ctx, showID, entityType, entityID)
	if err != nil {
		return false, fmt.Errorf("failed to load checklist items: %w", err)
	}
	return checklist.AllCompleted(items), nil
}

// AddItem creates an open item on a show the organisation runs
func (s *Service) AddItem(ctx context.Context, cmd AddItemCommand) (*ItemResponse, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, shared.ErrInvalidInput.Withf("title is required")
	}
	if (cmd.EntityType == "") != (cmd.EntityID == nil) {
		return nil, shared.ErrInvalidInput.Withf("entity_type and entity_id must be given together")
	}

	sh, err := s.shows.FindByID(ctx, cmd.ShowID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, show.ErrShowNotFound.Withf("show %s not found", cmd.ShowID)
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	if !sh.OwnedBy(cmd.ActorOrgID) {
		return nil, shared.ErrForbidden.Withf("show belongs to another organisation")
	}

	item := checklist.NewItem(sh.ID, title, cmd.EntityType, cmd.EntityID, cmd.AutoDetectKey)
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create checklist item: %w", err)
	}
	s.logger.Info("Checklist item added",
		zap.String("show_id", sh.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("auto_detect_key", item.AutoDetectKey))

	return &ItemResponse{
		ID:            item.ID,
		ShowID:        item.ShowID,
		Title:         item.Title,
		EntityType:    item.EntityType,
		EntityID:      item.EntityID,
		AutoDetectKey: item.AutoDetectKey,
		Completed:     item.IsCompleted(),
	}, nil
}
