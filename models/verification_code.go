// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

// VerificationCode is a short-lived one-time login code for a phone number.
// At most one row per phone number is live at any time; issuing a new code
// removes the previous ones and verification deletes the matched row.
type VerificationCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:20;not null;index:idx_verification_codes_phone" json:"phone_number"`
	Code        string    `gorm:"size:6;not null" json:"-"` // Never serialize the code
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt   time.Time `gorm:"not null;index:idx_verification_codes_expires_at" json:"expires_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// VerificationCodeFilter represents filter criteria for verification code queries
type VerificationCodeFilter struct {
	ID            *uint
	PhoneNumber   *string
	Code          *string
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
}

func (v *VerificationCode) IsExpired() bool {
	return time.Now().UTC().After(v.ExpiresAt)
}
