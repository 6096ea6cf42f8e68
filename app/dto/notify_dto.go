// Package dto contains Data Transfer Objects for API request and response structures
package dto

// NotifyRequest represents the request to send a WhatsApp notification.
// Recipients always arrive as an array, even for a single recipient.
type NotifyRequest struct {
	Recipients []string `json:"to" validate:"required,min=1,dive,required" example:"+971501234567"`
	Message    string   `json:"message" validate:"required" example:"New lead assigned to you"`
}

// NotifyResultDTO reports the delivery outcome for one recipient
type NotifyResultDTO struct {
	Recipient string `json:"recipient" example:"+971501234567"`
	MessageID string `json:"messageId,omitempty" example:"SM1f2e3d4c5b6a"`
	Success   bool   `json:"success" example:"true"`
	Error     string `json:"error,omitempty" example:"whatsapp delivery failed"`
	Attempts  int    `json:"attempts" example:"1"`
}

// NotifyResponse represents the aggregated outcome of a notification fan-out
type NotifyResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Notification dispatched"`
	Data    struct {
		TotalSent   int               `json:"totalSent" example:"2"`
		TotalFailed int               `json:"totalFailed" example:"0"`
		Results     []NotifyResultDTO `json:"results"`
	} `json:"data"`
}

// Common error codes for notification operations
const (
	ErrorNotifyFailed       = "NOTIFY_FAILED"
	ErrorRecipientsRequired = "RECIPIENTS_REQUIRED"
)
