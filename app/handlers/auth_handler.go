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
	"github.com/amirphl/Kitsune/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	SendCode(c fiber.Ctx) error
	VerifyCode(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow  businessflow.AuthFlow
	validator *validator.Validate
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	handler := &AuthHandler{
		authFlow:  authFlow,
		validator: validator.New(),
	}

	// Setup custom validations
	handler.setupCustomValidations()

	return handler
}

// SendCode issues a verification code and delivers it over WhatsApp
// @Summary Send Verification Code
// @Description Send a one-time login code to a staff member's WhatsApp
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SendCodeRequest true "Phone number"
// @Success 200 {object} dto.APIResponse{data=object{masked_phone=string,message_id=string,expires_in=int}} "Verification code sent"
// @Failure 400 {object} dto.APIResponse "Invalid phone number"
// @Failure 500 {object} dto.APIResponse "Delivery failure or provider not configured"
// @Router /api/v1/auth/send-code [post]
func (h *AuthHandler) SendCode(c fiber.Ctx) error {
	var req dto.SendCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	// Call business logic with proper context
	result, err := h.authFlow.SendCode(h.createRequestContext(c, "/api/v1/auth/send-code"), &req, metadata)
	if err != nil {
		// Handle specific business errors
		if businessflow.IsInvalidPhoneNumber(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid phone number", dto.ErrorInvalidPhoneNumber, nil)
		}
		if errors.Is(err, services.ErrWhatsAppNotConfigured) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "WhatsApp service not configured", dto.ErrorServiceNotConfigured, nil)
		}
		if businessflow.IsVerificationSendFault(err) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send verification code", dto.ErrorCodeSendFailed, nil)
		}

		log.Println("Send code failed", err)
		// Handle generic business errors
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send verification code", "SEND_CODE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"masked_phone": result.Data.MaskedPhone,
		"message_id":   result.Data.MessageID,
		"expires_in":   result.Data.ExpiresIn,
	})
}

// VerifyCode exchanges a valid code for a session token
// @Summary Verify Code
// @Description Verify a one-time login code and issue a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyCodeRequest true "Phone number and code"
// @Success 200 {object} dto.APIResponse{data=object{token=string,token_type=string,expires_in=int,user=dto.StaffInfo}} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid or expired code"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/verify-code [post]
func (h *AuthHandler) VerifyCode(c fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	// Call business logic with proper context
	result, err := h.authFlow.VerifyCode(h.createRequestContext(c, "/api/v1/auth/verify-code"), &req, metadata)
	if err != nil {
		// Handle specific business errors
		if businessflow.IsInvalidPhoneNumber(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid phone number", dto.ErrorInvalidPhoneNumber, nil)
		}
		if businessflow.IsNoValidCodeFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid or expired verification code", dto.ErrorInvalidCode, nil)
		}
		if businessflow.IsStaffNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", dto.ErrorUserNotFound, nil)
		}
		if businessflow.IsStaffInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}

		log.Println("Verify code failed", err)
		// Handle generic business errors
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Verification failed", "VERIFY_CODE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"token":      result.Data.Token,
		"token_type": result.Data.TokenType,
		"expires_in": utils.SessionTokenTTLSeconds,
		"user":       result.Data.User,
	})
}

// RefreshToken exchanges a still-valid session token for a fresh one
// @Summary Refresh Token
// @Description Exchange a valid session token for a fresh 24h token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Current session token"
// @Success 200 {object} dto.APIResponse{data=object{token=string,token_type=string,expires_in=int}} "Token refreshed"
// @Failure 401 {object} dto.APIResponse "Token invalid or expired"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	// Call business logic with proper context
	result, err := h.authFlow.RefreshToken(h.createRequestContext(c, "/api/v1/auth/refresh"), &req, metadata)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Token has expired", "TOKEN_EXPIRED", nil)
		}
		if errors.Is(err, services.ErrTokenInvalid) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", "TOKEN_INVALID", nil)
		}

		log.Println("Refresh token failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Token refresh failed", "REFRESH_TOKEN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"token":      result.Data.Token,
		"token_type": result.Data.TokenType,
		"expires_in": result.Data.ExpiresIn,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *AuthHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	// Create context with custom timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Add request-scoped values for observability
	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "timeout", timeout)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}

// Custom validation setup
func (h *AuthHandler) setupCustomValidations() {
	h.validator.RegisterValidation("numeric", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, char := range value {
			if char < '0' || char > '9' {
				return false
			}
		}
		return true
	})

	// Register custom validation for normalized UAE phone numbers
	h.validator.RegisterValidation("uae_phone", func(fl validator.FieldLevel) bool {
		return utils.IsValidUAEPhoneNumber(utils.NormalizePhoneNumber(fl.Field().String()))
	})
}
