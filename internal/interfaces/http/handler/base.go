// Package handler contains the gin handlers of the bills API.
package handler

import (
	"errors"
	"net/http"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared"
	"github.com/erp/bills/internal/infrastructure/logger"
	"github.com/erp/bills/internal/interfaces/http/dto"
	"github.com/erp/bills/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides the response helpers shared by all handlers
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ValidationError sends a 400 response listing every field violation
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		dto.MsgValidationFailed,
		middleware.GetRequestID(c),
		details,
	))
}

// InternalError sends a 500 response with the generic message
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, dto.MsgInternal)
}

// HandleError maps err to a response:
// validation errors to 400, conflicts to 409, publish failures to 503 and
// anything unrecognized to 500 without exposing its message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		items := validationErr.Items()
		details := make([]dto.ValidationDetail, 0, len(items))
		for _, item := range items {
			details = append(details, dto.ValidationDetail{Field: item.Field, Message: item.Message})
		}
		h.ValidationError(c, details)
		return
	}

	var publishErr *billing.PublishError
	if errors.As(err, &publishErr) {
		logger.GetGinLogger(c).Error("Integration event publish failed",
			zap.Int64("bill_id", publishErr.BillID),
			zap.String("bill_number", publishErr.BillNumber),
			zap.Error(publishErr.Err),
		)
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodePublishFailed, dto.MsgBrokerFailure)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != shared.CodeInternal {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.InternalError(c)
}

// PanicResponse writes the response for a recovered panic
func PanicResponse(c *gin.Context) {
	(&BaseHandler{}).InternalError(c)
}

// NoRoute answers unmatched paths
func NoRoute(c *gin.Context) {
	(&BaseHandler{}).Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found")
}

// NoMethod answers known paths requested with an unsupported method
func NoMethod(c *gin.Context) {
	(&BaseHandler{}).Error(c, http.StatusMethodNotAllowed, dto.ErrCodeMethodNotAllowed,
		"Method '"+c.Request.Method+"' is not allowed.")
}
