// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
	businessflow "github.com/amirphl/Kitsune/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// NotifyHandlerInterface defines the contract for notification handlers
type NotifyHandlerInterface interface {
	Notify(c fiber.Ctx) error
}

// NotifyHandler handles notification-related HTTP requests
type NotifyHandler struct {
	notifyFlow businessflow.NotifyFlow
	validator  *validator.Validate
}

func (h *NotifyHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NotifyHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewNotifyHandler creates a new notification handler
func NewNotifyHandler(notifyFlow businessflow.NotifyFlow) *NotifyHandler {
	return &NotifyHandler{
		notifyFlow: notifyFlow,
		validator:  validator.New(),
	}
}

// Notify fans a WhatsApp message out to one or more recipients
// @Summary Send Notification
// @Description Send a WhatsApp message to every recipient in the list and report per-recipient outcomes
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body dto.NotifyRequest true "Recipients and message"
// @Success 200 {object} dto.APIResponse{data=object{totalSent=int,totalFailed=int,results=[]dto.NotifyResultDTO}} "Notification dispatched"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Provider not configured"
// @Router /api/v1/notify [post]
func (h *NotifyHandler) Notify(c fiber.Ctx) error {
	var req dto.NotifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidationFailed, validationErrors)
	}

	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	result, err := h.notifyFlow.Notify(h.createRequestContext(c, "/api/v1/notify"), &req, metadata)
	if err != nil {
		if businessflow.IsRecipientsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one recipient is required", dto.ErrorRecipientsRequired, nil)
		}
		if businessflow.IsMessageRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Message text is required", dto.ErrorValidationFailed, nil)
		}
		if errors.Is(err, services.ErrWhatsAppNotConfigured) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "WhatsApp service not configured", dto.ErrorServiceNotConfigured, nil)
		}

		log.Println("Notify failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to dispatch notification", dto.ErrorNotifyFailed, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *NotifyHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
