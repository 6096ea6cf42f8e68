// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	businessflow "github.com/amirphl/Kitsune/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LeadHandlerInterface defines the contract for lead handlers
type LeadHandlerInterface interface {
	ListLeads(c fiber.Ctx) error
	GetLead(c fiber.Ctx) error
	CreateLead(c fiber.Ctx) error
	UpdateLead(c fiber.Ctx) error
	DeleteLead(c fiber.Ctx) error
	AddComment(c fiber.Ctx) error
	ListComments(c fiber.Ctx) error
	AddFollowUp(c fiber.Ctx) error
	ListFollowUps(c fiber.Ctx) error
	ExportLeads(c fiber.Ctx) error
}

// LeadHandler handles lead-related HTTP requests
type LeadHandler struct {
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

func (h *LeadHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LeadHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadFlow businessflow.LeadFlow) *LeadHandler {
	return &LeadHandler{
		leadFlow:  leadFlow,
		validator: validator.New(),
	}
}

// leadIDFromParams parses the :id route parameter
func (h *LeadHandler) leadIDFromParams(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// actorPhoneFromContext reads the authenticated phone number set by the auth middleware
func (h *LeadHandler) actorPhoneFromContext(c fiber.Ctx) string {
	phoneNumber, ok := c.Locals("phone_number").(string)
	if !ok {
		return ""
	}
	return phoneNumber
}

// ListLeads returns all leads with their nested collections
// @Summary List Leads
// @Description List all leads newest first, each with comments, follow-ups, and activities
// @Tags Leads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.LeadDTO} "Leads retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	result, err := h.leadFlow.ListLeads(h.createRequestContext(c, "/api/v1/leads"))
	if err != nil {
		log.Println("List leads failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// GetLead returns a single lead with its nested collections
// @Summary Get Lead
// @Description Get one lead by ID with comments, follow-ups, and activities
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead retrieved"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id} [get]
func (h *LeadHandler) GetLead(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	result, err := h.leadFlow.GetLead(h.createRequestContext(c, "/api/v1/leads/:id"), leadID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}

		log.Println("Get lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get lead", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// CreateLead creates a new lead
// @Summary Create Lead
// @Description Create a lead and derive its creation activity
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Lead data"
// @Success 201 {object} dto.APIResponse{data=dto.LeadDTO} "Lead created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads [post]
func (h *LeadHandler) CreateLead(c fiber.Ctx) error {
	var req dto.CreateLeadRequest
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

	result, err := h.leadFlow.CreateLead(h.createRequestContext(c, "/api/v1/leads"), &req, h.actorPhoneFromContext(c), metadata)
	if err != nil {
		if businessflow.IsInvalidDivision(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid division", dto.ErrorInvalidDivision, nil)
		}
		if businessflow.IsInvalidLeadStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", dto.ErrorInvalidStatus, nil)
		}
		if businessflow.IsLeadTitleRequired(err) || businessflow.IsLeadDivisionRequired(err) || businessflow.IsLeadAssignedToRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidationFailed, err.Error())
		}

		log.Println("Create lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Data)
}

// UpdateLead applies a partial update to a lead
// @Summary Update Lead
// @Description Update a lead; closing or terminating requires being its assignee
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body dto.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Status change not allowed"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id} [put]
func (h *LeadHandler) UpdateLead(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	var req dto.UpdateLeadRequest
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

	result, err := h.leadFlow.UpdateLead(h.createRequestContext(c, "/api/v1/leads/:id"), leadID, &req, h.actorPhoneFromContext(c), metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsStatusChangeNotAllowed(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Only the assigned user can close or terminate a lead", dto.ErrorStatusNotAllowed, nil)
		}
		if businessflow.IsInvalidDivision(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid division", dto.ErrorInvalidDivision, nil)
		}
		if businessflow.IsInvalidLeadStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", dto.ErrorInvalidStatus, nil)
		}
		if businessflow.IsLeadTitleRequired(err) || businessflow.IsLeadAssignedToRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidationFailed, err.Error())
		}

		log.Println("Update lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// DeleteLead removes a lead and its dependents
// @Summary Delete Lead
// @Description Delete a lead together with its activities, comments, and follow-ups
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse "Lead deleted"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	result, err := h.leadFlow.DeleteLead(h.createRequestContext(c, "/api/v1/leads/:id"), leadID, h.actorPhoneFromContext(c), metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}

		log.Println("Delete lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", dto.ErrorLeadDeleteFailed, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// AddComment appends a comment to a lead
// @Summary Add Comment
// @Description Add a comment to a lead and derive the matching activity
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body dto.AddCommentRequest true "Comment data"
// @Success 201 {object} dto.APIResponse{data=dto.CommentDTO} "Comment added"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id}/comments [post]
func (h *LeadHandler) AddComment(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	var req dto.AddCommentRequest
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

	result, err := h.leadFlow.AddComment(h.createRequestContext(c, "/api/v1/leads/:id/comments"), leadID, &req, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsCommentTextRequired(err) || businessflow.IsCommentAuthorRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidationFailed, err.Error())
		}

		log.Println("Add comment failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add comment", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Data)
}

// ListComments returns a lead's comments
// @Summary List Comments
// @Description List a lead's comments, oldest first
// @Tags Comments
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentDTO} "Comments retrieved"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id}/comments [get]
func (h *LeadHandler) ListComments(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	result, err := h.leadFlow.ListComments(h.createRequestContext(c, "/api/v1/leads/:id/comments"), leadID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}

		log.Println("List comments failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list comments", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// AddFollowUp schedules a follow-up on a lead
// @Summary Add Follow-Up
// @Description Schedule a follow-up on a lead and derive the matching activity
// @Tags FollowUps
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body dto.AddFollowUpRequest true "Follow-up data"
// @Success 201 {object} dto.APIResponse{data=dto.FollowUpDTO} "Follow-up scheduled"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id}/followups [post]
func (h *LeadHandler) AddFollowUp(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	var req dto.AddFollowUpRequest
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

	result, err := h.leadFlow.AddFollowUp(h.createRequestContext(c, "/api/v1/leads/:id/followups"), leadID, &req, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsFollowUpDescriptionRequired(err) || businessflow.IsFollowUpScheduleRequired(err) || businessflow.IsFollowUpAuthorRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidationFailed, err.Error())
		}

		log.Println("Add follow-up failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to schedule follow-up", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Data)
}

// ListFollowUps returns a lead's follow-ups
// @Summary List Follow-Ups
// @Description List a lead's follow-ups ordered by schedule
// @Tags FollowUps
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.FollowUpDTO} "Follow-ups retrieved"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/{id}/followups [get]
func (h *LeadHandler) ListFollowUps(c fiber.Ctx) error {
	leadID, ok := h.leadIDFromParams(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_LEAD_ID", nil)
	}

	result, err := h.leadFlow.ListFollowUps(h.createRequestContext(c, "/api/v1/leads/:id/followups"), leadID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}

		log.Println("List follow-ups failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list follow-ups", dto.ErrorInternalServer, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Data)
}

// ExportLeads returns all leads as an Excel workbook
// @Summary Export Leads
// @Description Download all leads as an xlsx file
// @Tags Leads
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Excel file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/export [get]
func (h *LeadHandler) ExportLeads(c fiber.Ctx) error {
	filename, data, err := h.leadFlow.ExportLeads(h.createRequestContext(c, "/api/v1/leads/export"))
	if err != nil {
		log.Println("Export leads failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export leads", dto.ErrorLeadExportFailed, nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *LeadHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
