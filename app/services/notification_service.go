// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirphl/Kitsune/utils"
)

// NotificationService dispatches WhatsApp notifications with retry and fan-out
type NotificationService interface {
	Send(ctx context.Context, recipient, message string) (*DeliveryResult, error)
	Broadcast(ctx context.Context, recipients []string, message string) (*BroadcastResult, error)
}

// DeliveryResult reports the outcome of delivery to a single recipient
type DeliveryResult struct {
	Recipient string `json:"recipient"`
	MessageID string `json:"messageId,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Attempts  int    `json:"attempts"`
}

// BroadcastResult aggregates per-recipient outcomes of a fan-out
type BroadcastResult struct {
	TotalSent   int              `json:"totalSent"`
	TotalFailed int              `json:"totalFailed"`
	Results     []DeliveryResult `json:"results"`
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	whatsapp    WhatsAppService
	maxAttempts int
	retryDelay  time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(whatsapp WhatsAppService) NotificationService {
	return &NotificationServiceImpl{
		whatsapp:    whatsapp,
		maxAttempts: utils.NotificationMaxAttempts,
		retryDelay:  utils.NotificationRetryBaseDelay,
	}
}

// Send delivers a message to one recipient, retrying transient failures with
// an increasing delay between attempts. The recipient is normalized to the
// UAE international format before delivery.
func (s *NotificationServiceImpl) Send(ctx context.Context, recipient, message string) (*DeliveryResult, error) {
	if !s.whatsapp.IsConfigured() {
		return nil, ErrWhatsAppNotConfigured
	}

	normalized := utils.NormalizePhoneNumber(recipient)
	if !utils.IsValidUAEPhoneNumber(normalized) {
		return &DeliveryResult{
			Recipient: recipient,
			Success:   false,
			Error:     fmt.Sprintf("invalid phone number: %s", recipient),
		}, nil
	}

	result := &DeliveryResult{Recipient: normalized}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt

		messageID, err := s.whatsapp.SendMessage(ctx, normalized, message)
		if err == nil {
			result.MessageID = messageID
			result.Success = true
			return result, nil
		}
		lastErr = err

		if attempt < s.maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result, nil
			}
		}
	}

	result.Error = lastErr.Error()
	return result, nil
}

// Broadcast delivers a message to every recipient concurrently and reports
// per-recipient outcomes. A failed recipient never blocks the others.
func (s *NotificationServiceImpl) Broadcast(ctx context.Context, recipients []string, message string) (*BroadcastResult, error) {
	if !s.whatsapp.IsConfigured() {
		return nil, ErrWhatsAppNotConfigured
	}

	broadcast := &BroadcastResult{
		Results: make([]DeliveryResult, len(recipients)),
	}
	if len(recipients) == 0 {
		return broadcast, nil
	}

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()

			result, err := s.Send(ctx, recipient, message)
			if err != nil {
				broadcast.Results[i] = DeliveryResult{
					Recipient: recipient,
					Success:   false,
					Error:     err.Error(),
				}
				return
			}
			broadcast.Results[i] = *result
		}(i, recipient)
	}
	wg.Wait()

	for _, result := range broadcast.Results {
		if result.Success {
			broadcast.TotalSent++
		} else {
			broadcast.TotalFailed++
		}
	}

	return broadcast, nil
}
