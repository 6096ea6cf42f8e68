// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"context"
	"errors"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
)

// NotifyFlow handles ad-hoc WhatsApp notification fan-out
type NotifyFlow interface {
	Notify(ctx context.Context, request *dto.NotifyRequest, metadata *ClientMetadata) (*dto.NotifyResponse, error)
}

// NotifyFlowImpl implements the notification business flow
type NotifyFlowImpl struct {
	notificationSvc services.NotificationService
}

// NewNotifyFlow creates a new notify flow instance
func NewNotifyFlow(notificationSvc services.NotificationService) NotifyFlow {
	return &NotifyFlowImpl{
		notificationSvc: notificationSvc,
	}
}

// Notify delivers a message to every recipient concurrently and reports
// per-recipient outcomes. Partial failure still yields a successful response
// carrying the failure details.
func (nf *NotifyFlowImpl) Notify(ctx context.Context, request *dto.NotifyRequest, metadata *ClientMetadata) (*dto.NotifyResponse, error) {
	if len(request.Recipients) == 0 {
		return nil, NewBusinessError(dto.ErrorRecipientsRequired, "At least one recipient is required", ErrRecipientsRequired)
	}
	if request.Message == "" {
		return nil, NewBusinessError("MESSAGE_REQUIRED", "Message text is required", ErrMessageRequired)
	}

	broadcast, err := nf.notificationSvc.Broadcast(ctx, request.Recipients, request.Message)
	if err != nil {
		if errors.Is(err, services.ErrWhatsAppNotConfigured) {
			return nil, NewBusinessError(dto.ErrorServiceNotConfigured, "WhatsApp service not configured", err)
		}
		return nil, NewBusinessError(dto.ErrorNotifyFailed, "Failed to dispatch notification", err)
	}

	resp := &dto.NotifyResponse{
		Success: true,
		Message: "Notification dispatched",
	}
	resp.Data.TotalSent = broadcast.TotalSent
	resp.Data.TotalFailed = broadcast.TotalFailed
	resp.Data.Results = make([]dto.NotifyResultDTO, 0, len(broadcast.Results))
	for _, result := range broadcast.Results {
		resp.Data.Results = append(resp.Data.Results, dto.NotifyResultDTO{
			Recipient: result.Recipient,
			MessageID: result.MessageID,
			Success:   result.Success,
			Error:     result.Error,
			Attempts:  result.Attempts,
		})
	}

	return resp, nil
}
