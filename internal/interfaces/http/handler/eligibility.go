package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	eligibilityapp "github.com/showring/backend/internal/application/eligibility"
	"go.uber.org/zap"
)

// EligibilityService evaluates a dog's title progress and class eligibility
type EligibilityService interface {
	Evaluate(ctx context.Context, requester eligibilityapp.Requester, dogID uuid.UUID, fieldTrialEvidence bool) (*eligibilityapp.Report, error)
}

// EligibilityHandler serves eligibility reports
type EligibilityHandler struct {
	BaseHandler
	service EligibilityService
}

// NewEligibilityHandler creates a new EligibilityHandler
func NewEligibilityHandler(service EligibilityService, metrics OperationRecorder, logger *zap.Logger) *EligibilityHandler {
	return &EligibilityHandler{BaseHandler: newBaseHandler(logger, metrics), service: service}
}

// Evaluate handles GET /dogs/:dog_id/eligibility?field_trial_evidence=
func (h *EligibilityHandler) Evaluate(c *gin.Context) {
	id, ok := h.Identity(c)
	if !ok {
		return
	}
	dogID, ok := h.PathUUID(c, "dog_id")
	if !ok {
		return
	}
	evidence := false
	if raw := c.Query("field_trial_evidence"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "field_trial_evidence must be true or false")
			return
		}
		evidence = v
	}

	report, err := h.service.Evaluate(c.Request.Context(),
		eligibilityapp.Requester{UserID: id.UserID, IsSecretary: id.IsSecretary()}, dogID, evidence)
	h.record("eligibility", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
