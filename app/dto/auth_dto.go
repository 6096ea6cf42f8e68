// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SendCodeRequest represents the request to send a login verification code
type SendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=20,uae_phone" example:"0501234567"`
}

// SendCodeResponse represents the response after a verification code was dispatched
type SendCodeResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Verification code sent"`
	Data    struct {
		MaskedPhone string `json:"maskedPhone" example:"+97150*****4567"`
		MessageID   string `json:"messageId,omitempty" example:"SM1f2e3d4c5b6a"`
		ExpiresIn   int    `json:"expiresIn" example:"600"`
	} `json:"data"`
}

// VerifyCodeRequest represents the request to verify a login code
type VerifyCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=20,uae_phone" example:"0501234567"`
	Code        string `json:"code" validate:"required,len=6,numeric" example:"123456"`
}

// VerifyCodeResponse represents the successful login response
type VerifyCodeResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Login successful"`
	Data    struct {
		Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		TokenType string    `json:"tokenType" example:"Bearer"`
		ExpiresIn int       `json:"expiresIn" example:"86400"`
		User      StaffInfo `json:"user"`
	} `json:"data"`
}

// StaffInfo represents the authenticated staff member in login responses
type StaffInfo struct {
	ID          uint   `json:"id" example:"3"`
	Name        string `json:"name" example:"Sarah"`
	PhoneNumber string `json:"phoneNumber" example:"+971501234567"`
}

// RefreshTokenRequest represents the request to exchange a valid session token for a fresh one
type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenResponse represents the response carrying a fresh session token
type RefreshTokenResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Token refreshed"`
	Data    struct {
		Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		TokenType string `json:"tokenType" example:"Bearer"`
		ExpiresIn int    `json:"expiresIn" example:"86400"`
	} `json:"data"`
}

// Common error codes for authentication operations
const (
	ErrorUserNotFound         = "USER_NOT_FOUND"
	ErrorInvalidCode          = "INVALID_CODE"
	ErrorInvalidPhoneNumber   = "INVALID_PHONE_NUMBER"
	ErrorServiceNotConfigured = "SERVICE_NOT_CONFIGURED"
	ErrorCodeSendFailed       = "CODE_SEND_FAILED"
)
