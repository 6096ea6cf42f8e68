// Package utils provides utility functions for the application.
package utils

import (
	"strings"
)

// UAECountryCode is the international dialing prefix for the UAE
const UAECountryCode = "971"

// NormalizePhoneNumber converts a UAE phone number to E.164 form (+971XXXXXXXXX).
// Non-digit characters are stripped before interpretation. Numbers already
// carrying the country code keep it; local forms starting with 0 have the
// leading zero replaced; bare subscriber numbers get the country code prefixed.
func NormalizePhoneNumber(phone string) string {
	var cleaned strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)
		}
	}
	digits := cleaned.String()

	switch {
	case strings.HasPrefix(digits, UAECountryCode):
		return "+" + digits
	case strings.HasPrefix(digits, "0"):
		return "+" + UAECountryCode + digits[1:]
	default:
		return "+" + UAECountryCode + digits
	}
}

// IsValidUAEPhoneNumber reports whether the number is a well-formed UAE number:
// an optional plus, the 971 country code, and exactly nine subscriber digits.
func IsValidUAEPhoneNumber(phone string) bool {
	rest := strings.TrimPrefix(phone, "+")
	if !strings.HasPrefix(rest, UAECountryCode) {
		return false
	}
	subscriber := rest[len(UAECountryCode):]
	if len(subscriber) != 9 {
		return false
	}
	for _, r := range subscriber {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MaskPhoneNumber hides all but the last four digits of a phone number
func MaskPhoneNumber(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
