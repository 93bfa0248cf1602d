package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checklistapp "github.com/showring/backend/internal/application/checklist"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ChecklistService answers auto-detect queries and adds items
type ChecklistService interface {
	IsComplete(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) (bool, error)
	AddItem(ctx context.Context, cmd checklistapp.AddItemCommand) (*checklistapp.ItemResponse, error)
}

// ChecklistHandler serves show checklists
type ChecklistHandler struct {
	BaseHandler
	service ChecklistService
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(service ChecklistService, metrics OperationRecorder, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{BaseHandler: newBaseHandler(logger, metrics), service: service}
}

// AutoDetect handles GET /shows/:show_id/checklist/auto-detect?entity_type=&entity_id=
func (h *ChecklistHandler) AutoDetect(c *gin.Context) {
	if _, ok := h.Organisation(c); !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}
	entityType := c.Query("entity_type")
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if entityType == "" || err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "entity_type and a valid entity_id are required")
		return
	}

	done, err := h.service.IsComplete(c.Request.Context(), showID, entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AutoDetectResponse{
		EntityType: entityType,
		EntityID:   entityID.String(),
		Completed:  done,
	})
}

// AddItem handles POST /shows/:show_id/checklist
func (h *ChecklistHandler) AddItem(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}
	var req dto.AddChecklistItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand(orgID, showID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), cmd)
	h.record("checklist_add_item", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}
