package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	judgingapp "github.com/showring/backend/internal/application/judging"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/templates"
	"go.uber.org/zap"
)

// JudgingService runs judge offers for secretaries and offer links
type JudgingService interface {
	SendOffer(ctx context.Context, cmd judgingapp.SendOfferCommand) (*judgingapp.ContractResponse, error)
	Confirm(ctx context.Context, cmd judgingapp.ConfirmCommand) (*judgingapp.ContractResponse, error)
	Get(ctx context.Context, orgID, contractID uuid.UUID) (*judgingapp.ContractResponse, error)
	ListByShow(ctx context.Context, orgID, showID uuid.UUID) ([]judgingapp.ContractResponse, error)
	View(ctx context.Context, rawToken string) (*judgingapp.OfferView, error)
	Respond(ctx context.Context, rawToken, rawAction string) (*judgingapp.OfferView, error)
}

// JudgingHandler serves the secretary contract API
type JudgingHandler struct {
	BaseHandler
	service JudgingService
}

// NewJudgingHandler creates a new JudgingHandler
func NewJudgingHandler(service JudgingService, metrics OperationRecorder, logger *zap.Logger) *JudgingHandler {
	return &JudgingHandler{BaseHandler: newBaseHandler(logger, metrics), service: service}
}

// SendOffer handles POST /shows/:show_id/judge-contracts
func (h *JudgingHandler) SendOffer(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}
	var req dto.SendOfferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand(orgID, showID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.service.SendOffer(c.Request.Context(), cmd)
	h.record("judge_offer_send", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// ListByShow handles GET /shows/:show_id/judge-contracts
func (h *JudgingHandler) ListByShow(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}

	contracts, err := h.service.ListByShow(c.Request.Context(), orgID, showID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if contracts == nil {
		contracts = []judgingapp.ContractResponse{}
	}
	h.Success(c, contracts)
}

// Get handles GET /judge-contracts/:contract_id
func (h *JudgingHandler) Get(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	contractID, ok := h.PathUUID(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.service.Get(c.Request.Context(), orgID, contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Confirm handles POST /judge-contracts/:contract_id/confirm
func (h *JudgingHandler) Confirm(c *gin.Context) {
	orgID, ok := h.Organisation(c)
	if !ok {
		return
	}
	contractID, ok := h.PathUUID(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.service.Confirm(c.Request.Context(), judgingapp.ConfirmCommand{
		ActorOrgID: orgID,
		ContractID: contractID,
	})
	h.record("judge_offer_confirm", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// OfferPageHandler serves the unauthenticated offer link pages. Every
// outcome is an HTML page; failures carry their own status.
type OfferPageHandler struct {
	service JudgingService
	pages   *template.Template
	metrics OperationRecorder
	logger  *zap.Logger
}

// NewOfferPageHandler creates a new OfferPageHandler
func NewOfferPageHandler(service JudgingService, pages *template.Template, metrics OperationRecorder, logger *zap.Logger) *OfferPageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &OfferPageHandler{service: service, pages: pages, metrics: metrics, logger: logger}
}

type offerPage struct {
	Title   string
	Heading string
	Message string
	Offer   *judgingapp.OfferView
	Action  string
}

// View handles GET /judge-contract/:token?action=accept|decline. The
// action only preselects a button; a GET never changes the offer.
func (h *OfferPageHandler) View(c *gin.Context) {
	offer, err := h.service.View(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	if !offer.CanRespond {
		h.render(c, http.StatusOK, templates.Responded, respondedPage(offer))
		return
	}

	action := ""
	if a, err := judging.ParseAction(c.Query("action")); err == nil {
		action = string(a)
	}
	h.render(c, http.StatusOK, templates.Offer, offerPage{
		Title:  "Judging appointment: " + offer.ShowName,
		Offer:  offer,
		Action: action,
	})
}

// Respond handles POST /judge-contract/:token with form field action
func (h *OfferPageHandler) Respond(c *gin.Context) {
	offer, err := h.service.Respond(c.Request.Context(), c.Param("token"), c.PostForm("action"))
	h.metrics.RecordOperation("judge_offer_respond", err)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, templates.Responded, respondedPage(offer))
}

func respondedPage(offer *judgingapp.OfferView) offerPage {
	page := offerPage{Title: "Judging appointment: " + offer.ShowName, Offer: offer}
	switch offer.Stage {
	case judging.StageOfferAccepted:
		page.Heading = "Thank you for accepting"
		page.Message = "The show secretary has been told and will confirm the appointment."
	case judging.StageConfirmed:
		page.Heading = "Appointment confirmed"
		page.Message = "This appointment has been confirmed by the show secretary."
	case judging.StageDeclined:
		page.Heading = "Offer declined"
		page.Message = "The show secretary has been told that you cannot judge on this occasion."
	default:
		page.Heading = "Offer recorded"
	}
	return page
}

func (h *OfferPageHandler) renderError(c *gin.Context, err error) {
	_ = c.Error(err)
	page := offerPage{Title: "Judging appointment"}
	status := http.StatusInternalServerError

	var de *shared.DomainError
	switch {
	case errors.As(err, &de) && de.Code == judging.ErrAlreadyResponded.Code:
		status = dto.GetHTTPStatus(de.Code)
		page.Heading = "Already responded"
		page.Message = "This offer has already been answered. No change was made."
	case errors.As(err, &de):
		status = dto.GetHTTPStatus(de.Code)
		page.Heading = headingFor(status)
		page.Message = de.Message
	default:
		logger.Enrich(c.Request.Context(), h.logger).Error("Offer page failed", zap.Error(err))
		page.Heading = "Something went wrong"
		page.Message = "Please try the link again in a few minutes."
	}
	h.render(c, status, templates.Error, page)
}

func headingFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Offer not found"
	case http.StatusGone:
		return "This offer link has expired"
	case http.StatusBadRequest:
		return "Please choose accept or decline"
	}
	return "This offer cannot be changed"
}

func (h *OfferPageHandler) render(c *gin.Context, status int, name string, page offerPage) {
	c.Header("Cache-Control", "no-store")
	c.Render(status, render.HTML{Template: h.pages, Name: name, Data: page})
}
