package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationSendSuccess(t *testing.T) {
	mock := NewMockWhatsAppService()
	svc := NewNotificationService(mock)

	result, err := svc.Send(context.Background(), "0506294302", "hello")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "+971506294302", result.Recipient)
	assert.Equal(t, 1, result.Attempts)
	assert.NotEmpty(t, result.MessageID)

	messages := mock.GetSentMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "+971506294302", messages[0].Recipient)
	assert.Equal(t, "hello", messages[0].Message)
}

func TestNotificationSendNotConfigured(t *testing.T) {
	mock := NewMockWhatsAppService()
	mock.Configured = false
	svc := NewNotificationService(mock)

	_, err := svc.Send(context.Background(), "+971506294302", "hello")
	assert.ErrorIs(t, err, ErrWhatsAppNotConfigured)
}

func TestNotificationSendInvalidRecipient(t *testing.T) {
	mock := NewMockWhatsAppService()
	svc := NewNotificationService(mock)

	result, err := svc.Send(context.Background(), "+98912345", "hello")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid phone number")
	assert.Empty(t, mock.GetSentMessages())
}

func TestNotificationSendRetriesTransientFailure(t *testing.T) {
	mock := NewMockWhatsAppService()
	mock.FailTimes["+971506294302"] = 2
	svc := NewNotificationService(mock)

	result, err := svc.Send(context.Background(), "+971506294302", "hello")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
}

func TestNotificationSendExhaustsRetries(t *testing.T) {
	mock := NewMockWhatsAppService()
	mock.FailFor["+971506294302"] = assert.AnError
	svc := NewNotificationService(mock)

	result, err := svc.Send(context.Background(), "+971506294302", "hello")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.NotEmpty(t, result.Error)
}

func TestBroadcastCountsOutcomes(t *testing.T) {
	mock := NewMockWhatsAppService()
	mock.FailFor["+971543323219"] = assert.AnError
	svc := NewNotificationService(mock)

	recipients := []string{"+971506294302", "+971543323219", "+971543323218"}
	result, err := svc.Broadcast(context.Background(), recipients, "announcement")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSent)
	assert.Equal(t, 1, result.TotalFailed)
	require.Len(t, result.Results, 3)

	// Results keep the request ordering
	assert.True(t, result.Results[0].Success)
	assert.False(t, result.Results[1].Success)
	assert.True(t, result.Results[2].Success)
}

func TestBroadcastEmptyRecipients(t *testing.T) {
	mock := NewMockWhatsAppService()
	svc := NewNotificationService(mock)

	result, err := svc.Broadcast(context.Background(), nil, "announcement")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalSent)
	assert.Equal(t, 0, result.TotalFailed)
	assert.Empty(t, result.Results)
}

func TestBroadcastNotConfigured(t *testing.T) {
	mock := NewMockWhatsAppService()
	mock.Configured = false
	svc := NewNotificationService(mock)

	_, err := svc.Broadcast(context.Background(), []string{"+971506294302"}, "announcement")
	assert.ErrorIs(t, err, ErrWhatsAppNotConfigured)
}
