package utils

import (
	"time"
)

// Token and verification time constants
const (
	// SessionTokenTTL is the time-to-live for session tokens (24 hours)
	SessionTokenTTL = 24 * time.Hour

	// SessionTokenTTLSeconds is the time-to-live for session tokens in seconds (86400 seconds = 24 hours)
	SessionTokenTTLSeconds = 86400

	// VerificationCodeExpiry is the time-to-live for verification codes (10 minutes)
	VerificationCodeExpiry = 10 * time.Minute

	// VerificationCodeExpirySeconds is the time-to-live for verification codes in seconds (600 seconds = 10 minutes)
	VerificationCodeExpirySeconds = 600
)

// Notification dispatch constants
const (
	// NotificationMaxAttempts is the maximum number of delivery attempts per recipient
	NotificationMaxAttempts = 3

	// NotificationRetryBaseDelay is the delay before the first retry; it grows linearly per attempt
	NotificationRetryBaseDelay = 500 * time.Millisecond
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	// Cache keys for the staff directory
	StaffPhoneCacheKeyPrefix = "staff:phone:"
	StaffActiveCacheKey      = "staff:active"
)
