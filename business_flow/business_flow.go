// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToLeadDTO converts a lead model with its collections to LeadDTO for API responses
func ToLeadDTO(lead models.Lead) dto.LeadDTO {
	out := dto.LeadDTO{
		ID:         lead.ID,
		Title:      lead.Title,
		Division:   lead.Division,
		AssignedTo: lead.AssignedTo,
		Status:     lead.Status,
		CreatedAt:  lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  lead.UpdatedAt.Format(time.RFC3339),
		Comments:   make([]dto.CommentDTO, 0, len(lead.Comments)),
		FollowUps:  make([]dto.FollowUpDTO, 0, len(lead.FollowUps)),
		Activities: make([]dto.ActivityDTO, 0, len(lead.Activities)),
	}

	for _, comment := range lead.Comments {
		out.Comments = append(out.Comments, ToCommentDTO(comment))
	}
	for _, followUp := range lead.FollowUps {
		out.FollowUps = append(out.FollowUps, ToFollowUpDTO(followUp))
	}
	for _, activity := range lead.Activities {
		out.Activities = append(out.Activities, ToActivityDTO(activity))
	}

	return out
}

// ToCommentDTO converts a comment model to CommentDTO
func ToCommentDTO(comment models.Comment) dto.CommentDTO {
	return dto.CommentDTO{
		ID:        comment.ID,
		LeadID:    comment.LeadID,
		Text:      comment.Text,
		Author:    comment.Author,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
}

// ToFollowUpDTO converts a follow-up model to FollowUpDTO
func ToFollowUpDTO(followUp models.FollowUp) dto.FollowUpDTO {
	return dto.FollowUpDTO{
		ID:            followUp.ID,
		LeadID:        followUp.LeadID,
		Description:   followUp.Description,
		ScheduledDate: followUp.ScheduledDate,
		ScheduledTime: followUp.ScheduledTime,
		CreatedAt:     followUp.CreatedAt.Format(time.RFC3339),
	}
}

// ToActivityDTO converts an activity model to ActivityDTO
func ToActivityDTO(activity models.Activity) dto.ActivityDTO {
	return dto.ActivityDTO{
		ID:          activity.ID,
		LeadID:      activity.LeadID,
		Description: activity.Description,
		Author:      activity.Author,
		CreatedAt:   activity.CreatedAt.Format(time.RFC3339),
	}
}

// ToStaffInfo converts a staff model to StaffInfo for authentication responses
func ToStaffInfo(staff models.Staff) dto.StaffInfo {
	return dto.StaffInfo{
		ID:          staff.ID,
		Name:        staff.Name,
		PhoneNumber: staff.PhoneNumber,
	}
}
