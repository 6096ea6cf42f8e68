// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LeadDTO represents a lead with its nested collections in API responses
type LeadDTO struct {
	ID         uint          `json:"id" example:"42"`
	Title      string        `json:"title" example:"Acme Holdings acquisition"`
	Division   string        `json:"division" example:"Corporate"`
	AssignedTo string        `json:"assignedTo" example:"Sarah"`
	Status     string        `json:"status" example:"In Progress"`
	CreatedAt  string        `json:"createdAt" example:"2025-06-01T10:30:00Z"`
	UpdatedAt  string        `json:"updatedAt" example:"2025-06-02T09:00:00Z"`
	Comments   []CommentDTO  `json:"comments"`
	FollowUps  []FollowUpDTO `json:"followUps"`
	Activities []ActivityDTO `json:"activities"`
}

// CommentDTO represents a comment on a lead
type CommentDTO struct {
	ID        uint   `json:"id" example:"7"`
	LeadID    uint   `json:"leadId" example:"42"`
	Text      string `json:"text" example:"Client asked for revised terms"`
	Author    string `json:"author" example:"Sarah"`
	CreatedAt string `json:"createdAt" example:"2025-06-01T11:00:00Z"`
}

// FollowUpDTO represents a scheduled follow-up on a lead
type FollowUpDTO struct {
	ID            uint   `json:"id" example:"5"`
	LeadID        uint   `json:"leadId" example:"42"`
	Description   string `json:"description" example:"Call to confirm meeting"`
	ScheduledDate string `json:"scheduledDate" example:"2025-06-10"`
	ScheduledTime string `json:"scheduledTime" example:"14:30"`
	CreatedAt     string `json:"createdAt" example:"2025-06-01T11:05:00Z"`
}

// ActivityDTO represents a derived timeline entry on a lead
type ActivityDTO struct {
	ID          uint   `json:"id" example:"12"`
	LeadID      uint   `json:"leadId" example:"42"`
	Description string `json:"description" example:"Lead updated"`
	Author      string `json:"author" example:"Sarah"`
	CreatedAt   string `json:"createdAt" example:"2025-06-02T09:00:00Z"`
}

// CreateLeadRequest represents the request to create a lead
type CreateLeadRequest struct {
	Title      string `json:"title" validate:"required,max=255" example:"Acme Holdings acquisition"`
	Division   string `json:"division" validate:"required,max=100" example:"Corporate"`
	AssignedTo string `json:"assignedTo" validate:"required,max=255" example:"Sarah"`
	Status     string `json:"status,omitempty" validate:"omitempty,max=50" example:"New"`
}

// UpdateLeadRequest represents the request to update a lead; omitted fields keep their value
type UpdateLeadRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,max=255" example:"Acme Holdings acquisition"`
	Division   *string `json:"division,omitempty" validate:"omitempty,max=100" example:"Corporate"`
	AssignedTo *string `json:"assignedTo,omitempty" validate:"omitempty,max=255" example:"Sarah"`
	Status     *string `json:"status,omitempty" validate:"omitempty,max=50" example:"Closed"`
}

// AddCommentRequest represents the request to add a comment to a lead
type AddCommentRequest struct {
	Text   string `json:"text" validate:"required" example:"Client asked for revised terms"`
	Author string `json:"author" validate:"required,max=255" example:"Sarah"`
}

// AddFollowUpRequest represents the request to schedule a follow-up on a lead.
// The author attributes the derived activity, not the follow-up itself.
type AddFollowUpRequest struct {
	Description   string `json:"description" validate:"required" example:"Call to confirm meeting"`
	ScheduledDate string `json:"scheduledDate" validate:"required,datetime=2006-01-02" example:"2025-06-10"`
	ScheduledTime string `json:"scheduledTime" validate:"required" example:"14:30"`
	Author        string `json:"author" validate:"required,max=255" example:"Sarah"`
}

// ListLeadsResponse represents the response carrying all leads
type ListLeadsResponse struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message" example:"Leads retrieved"`
	Data    []LeadDTO `json:"data"`
}

// LeadResponse represents the response carrying a single lead
type LeadResponse struct {
	Success bool    `json:"success" example:"true"`
	Message string  `json:"message" example:"Lead retrieved"`
	Data    LeadDTO `json:"data"`
}

// CommentResponse represents the response carrying a single comment
type CommentResponse struct {
	Success bool       `json:"success" example:"true"`
	Message string     `json:"message" example:"Comment added"`
	Data    CommentDTO `json:"data"`
}

// ListCommentsResponse represents the response carrying a lead's comments
type ListCommentsResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Comments retrieved"`
	Data    []CommentDTO `json:"data"`
}

// FollowUpResponse represents the response carrying a single follow-up
type FollowUpResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Follow-up scheduled"`
	Data    FollowUpDTO `json:"data"`
}

// ListFollowUpsResponse represents the response carrying a lead's follow-ups
type ListFollowUpsResponse struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Follow-ups retrieved"`
	Data    []FollowUpDTO `json:"data"`
}

// DeleteLeadResponse represents the response after a lead was removed
type DeleteLeadResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Lead deleted"`
	Data    struct {
		ID uint `json:"id" example:"42"`
	} `json:"data"`
}

// Common error codes for lead operations
const (
	ErrorLeadNotFound      = "LEAD_NOT_FOUND"
	ErrorInvalidDivision   = "INVALID_DIVISION"
	ErrorInvalidStatus     = "INVALID_STATUS"
	ErrorStatusNotAllowed  = "STATUS_CHANGE_NOT_ALLOWED"
	ErrorValidationFailed  = "VALIDATION_ERROR"
	ErrorInternalServer    = "INTERNAL_SERVER_ERROR"
	ErrorLeadExportFailed  = "LEAD_EXPORT_FAILED"
	ErrorLeadDeleteFailed  = "LEAD_DELETE_FAILED"
	ErrorLeadTitleRequired = "LEAD_TITLE_REQUIRED"
)
