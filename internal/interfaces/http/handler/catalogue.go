package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogueapp "github.com/showring/backend/internal/application/catalogue"
	"github.com/showring/backend/internal/domain/catalogue"
	"go.uber.org/zap"
)

// CatalogueService numbers and lists a show's catalogue
type CatalogueService interface {
	Assign(ctx context.Context, orgID, showID uuid.UUID) (*catalogueapp.AssignResult, error)
	List(ctx context.Context, orgID, showID uuid.UUID) ([]catalogue.Listing, error)
}

// CatalogueRecorder counts numbers written by assignment runs
type CatalogueRecorder interface {
	OperationRecorder
	RecordCatalogueAssigned(n int)
}

// CatalogueHandler serves catalogue numbering for secretaries
type CatalogueHandler struct {
	BaseHandler
	service  CatalogueService
	assigned func(int)
}

// NewCatalogueHandler creates a new CatalogueHandler
func NewCatalogueHandler(service CatalogueService, metrics CatalogueRecorder, logger *zap.Logger) *CatalogueHandler {
	h := &CatalogueHandler{
		BaseHandler: newBaseHandler(logger, metrics),
		service:     service,
		assigned:    func(int) {},
	}
	if metrics != nil {
		h.assigned = metrics.RecordCatalogueAssigned
	}
	return h
}

// Assign handles POST /shows/:show_id/catalogue/assign
func (h *CatalogueHandler) Assign(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}

	result, err := h.service.Assign(c.Request.Context(), orgID, showID)
	h.record("catalogue_assign", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.assigned(result.Count)
	h.Success(c, result)
}

// List handles GET /shows/:show_id/catalogue
func (h *CatalogueHandler) List(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}

	listings, err := h.service.List(c.Request.Context(), orgID, showID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if listings == nil {
		listings = []catalogue.Listing{}
	}
	h.Success(c, listings)
}
