package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// CheckoutService converts carts into orders
type CheckoutService interface {
	Checkout(ctx context.Context, cmd checkoutapp.CheckoutCommand) (*checkoutapp.CheckoutResult, error)
	ResumePayment(ctx context.Context, exhibitorID, orderID uuid.UUID) (*checkoutapp.ResumeResult, error)
}

// AmendmentService replaces an entry's classes
type AmendmentService interface {
	Amend(ctx context.Context, cmd checkoutapp.AmendCommand) (*checkoutapp.AmendResult, error)
	ResumePayment(ctx context.Context, exhibitorID, paymentID uuid.UUID) (*checkoutapp.PaymentResumeResult, error)
}

// CheckoutHandler serves checkout, payment resumption and amendments
type CheckoutHandler struct {
	BaseHandler
	checkout CheckoutService
	amend    AmendmentService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout CheckoutService, amend AmendmentService, metrics OperationRecorder, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler: newBaseHandler(logger, metrics),
		checkout:    checkout,
		amend:       amend,
	}
}

// Checkout handles POST /shows/:show_id/checkout. When the order was
// written but the payment provider failed, the error envelope also
// carries the order so the client can resume payment.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	id, ok := h.Identity(c)
	if !ok {
		return
	}
	showID, ok := h.PathUUID(c, "show_id")
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand(id.UserID, showID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), cmd)
	h.record("checkout", err)
	if err != nil {
		if result != nil {
			h.errorWithData(c, err, dto.NewCheckoutView(result))
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewCheckoutView(result))
}

// ResumePayment handles POST /orders/:order_id/resume-payment
func (h *CheckoutHandler) ResumePayment(c *gin.Context) {
	id, ok := h.Identity(c)
	if !ok {
		return
	}
	orderID, ok := h.PathUUID(c, "order_id")
	if !ok {
		return
	}

	result, err := h.checkout.ResumePayment(c.Request.Context(), id.UserID, orderID)
	h.record("resume_payment", err)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AmendClasses handles PUT /entries/:entry_id/classes. When the classes
// were changed but the payment provider failed, the error envelope
// carries the amendment and its pending payment id.
func (h *CheckoutHandler) AmendClasses(c *gin.Context) {
	id, ok := h.Identity(c)
	if !ok {
		return
	}
	entryID, ok := h.PathUUID(c, "entry_id")
	if !ok {
		return
	}
	var req dto.AmendClassesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand(id.UserID, entryID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.amend.Amend(c.Request.Context(), cmd)
	h.record("amend_entry", err)
	if err != nil {
		if result != nil {
			h.errorWithData(c, err, dto.NewAmendView(result))
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewAmendView(result))
}

// ResumeAmendmentPayment handles POST /payments/:payment_id/resume
func (h *CheckoutHandler) ResumeAmendmentPayment(c *gin.Context) {
	id, ok := h.Identity(c)
	if !ok {
		return
	}
	paymentID, ok := h.PathUUID(c, "payment_id")
	if !ok {
		return
	}

	result, err := h.amend.ResumePayment(c.Request.Context(), id.UserID, paymentID)
	h.record("resume_amendment_payment", err)
	if err != nil {
		if result != nil {
			h.errorWithData(c, err, result)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// errorWithData sends a domain error envelope with data attached
func (h *CheckoutHandler) errorWithData(c *gin.Context, err error, data any) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		h.HandleError(c, err)
		return
	}
	resp := dto.NewErrorResponse(de.Code, de.Message, middleware.GetRequestID(c))
	resp.Data = data
	c.JSON(dto.GetHTTPStatus(de.Code), resp)
}
