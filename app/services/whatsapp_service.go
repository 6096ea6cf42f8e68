// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/Kitsune/config"
	"github.com/amirphl/Kitsune/utils"
)

// ErrWhatsAppNotConfigured indicates the provider credentials are missing from the environment
var ErrWhatsAppNotConfigured = errors.New("whatsapp service not configured")

// WhatsAppService sends WhatsApp messages through the configured provider
type WhatsAppService interface {
	SendMessage(ctx context.Context, recipient, message string) (messageID string, err error)
	IsConfigured() bool
}

// TwilioWhatsAppService implements WhatsAppService against the Twilio Messages API
type TwilioWhatsAppService struct {
	config *config.WhatsAppConfig
	client *http.Client
}

// twilioMessageResponse represents the provider response for a message create call
type twilioMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// NewTwilioWhatsAppService creates a new Twilio-backed WhatsApp service
func NewTwilioWhatsAppService(cfg *config.WhatsAppConfig) WhatsAppService {
	return &TwilioWhatsAppService{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// IsConfigured reports whether all provider credentials are present
func (s *TwilioWhatsAppService) IsConfigured() bool {
	return s.config.AccountSID != "" && s.config.AuthToken != "" && s.config.FromNumber != ""
}

// SendMessage sends a single WhatsApp message and returns the provider message ID
func (s *TwilioWhatsAppService) SendMessage(ctx context.Context, recipient, message string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrWhatsAppNotConfigured
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.config.FromNumber)
	form.Set("To", "whatsapp:"+recipient)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.config.APIBaseURL, s.config.AccountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	defer resp.Body.Close()

	var result twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if result.ErrorMessage != "" {
			return "", fmt.Errorf("whatsapp delivery failed for %s: %s", recipient, result.ErrorMessage)
		}
		return "", fmt.Errorf("whatsapp delivery failed for %s: status %d", recipient, resp.StatusCode)
	}
	if result.Status == "failed" || result.Status == "undelivered" {
		return "", fmt.Errorf("whatsapp delivery failed for %s: %s", recipient, result.Status)
	}

	return result.SID, nil
}

// MockWhatsAppService implements WhatsAppService for testing
type MockWhatsAppService struct {
	mu           sync.Mutex
	SentMessages []MockWhatsAppMessage
	FailFor      map[string]error
	FailTimes    map[string]int
	Configured   bool
}

// MockWhatsAppMessage represents a recorded mock message
type MockWhatsAppMessage struct {
	Recipient string
	Message   string
	SentAt    time.Time
}

// NewMockWhatsAppService creates a new mock WhatsApp service
func NewMockWhatsAppService() *MockWhatsAppService {
	return &MockWhatsAppService{
		SentMessages: make([]MockWhatsAppMessage, 0),
		FailFor:      make(map[string]error),
		FailTimes:    make(map[string]int),
		Configured:   true,
	}
}

// IsConfigured reports the configured flag set on the mock
func (m *MockWhatsAppService) IsConfigured() bool {
	return m.Configured
}

// SendMessage records a mock message, or fails when FailFor has an entry for the recipient
func (m *MockWhatsAppService) SendMessage(ctx context.Context, recipient, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Configured {
		return "", ErrWhatsAppNotConfigured
	}
	if err, ok := m.FailFor[recipient]; ok {
		return "", err
	}
	if remaining, ok := m.FailTimes[recipient]; ok && remaining > 0 {
		m.FailTimes[recipient] = remaining - 1
		return "", fmt.Errorf("transient delivery failure for %s", recipient)
	}

	m.SentMessages = append(m.SentMessages, MockWhatsAppMessage{
		Recipient: recipient,
		Message:   message,
		SentAt:    utils.UTCNow(),
	})

	return fmt.Sprintf("mock-%d", len(m.SentMessages)), nil
}

// GetSentMessages returns all recorded mock messages
func (m *MockWhatsAppService) GetSentMessages() []MockWhatsAppMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]MockWhatsAppMessage, len(m.SentMessages))
	copy(messages, m.SentMessages)
	return messages
}

// ClearSentMessages clears the recorded messages list
func (m *MockWhatsAppService) ClearSentMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentMessages = make([]MockWhatsAppMessage, 0)
}
