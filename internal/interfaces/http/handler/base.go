// Package handler turns HTTP requests into application service calls.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// OperationRecorder counts business operation outcomes
type OperationRecorder interface {
	RecordOperation(operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, error) {}

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger  *zap.Logger
	metrics OperationRecorder
}

func newBaseHandler(logger *zap.Logger, metrics OperationRecorder) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return BaseHandler{logger: logger, metrics: metrics}
}

// Success sends a 200 envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data, middleware.GetRequestID(c)))
}

// Created sends a 201 envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data, middleware.GetRequestID(c)))
}

// Error sends an error envelope with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 for input the binder could not even read
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, message)
}

// HandleError maps domain errors onto their status; anything else is a
// logged 500 whose detail never reaches the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var de *shared.DomainError
	if errors.As(err, &de) {
		h.Error(c, dto.GetHTTPStatus(de.Code), de.Code, de.Message)
		return
	}

	logger.Enrich(c.Request.Context(), h.logger).Error("Unhandled error",
		zap.String("route", c.FullPath()),
		zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindJSON binds and validates the body into req. It answers 400 and
// returns false on failure.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", middleware.GetRequestID(c), details))
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
		return false
	}
	h.BadRequest(c, err.Error())
	return false
}

// PathUUID parses the named path parameter; answers 400 on failure
func (h *BaseHandler) PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// Identity returns the authenticated caller; answers 401 when missing
func (h *BaseHandler) Identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return auth.Identity{}, false
	}
	return id, true
}

// Organisation returns the secretary's organisation; answers 403 for
// callers who do not act for a society.
func (h *BaseHandler) Organisation(c *gin.Context) (uuid.UUID, bool) {
	id, ok := h.Identity(c)
	if !ok {
		return uuid.Nil, false
	}
	if !id.IsSecretary() || id.OrganisationID == uuid.Nil {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Only show secretaries can do this")
		return uuid.Nil, false
	}
	return id.OrganisationID, true
}

// record counts the outcome of operation
func (h *BaseHandler) record(operation string, err error) {
	h.metrics.RecordOperation(operation, err)
}
