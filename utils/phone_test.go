package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already international", "971506294302", "+971506294302"},
		{"with plus", "+971506294302", "+971506294302"},
		{"local format with leading zero", "0506294302", "+971506294302"},
		{"bare subscriber number", "506294302", "+971506294302"},
		{"spaces and dashes stripped", "050-629 4302", "+971506294302"},
		{"parentheses stripped", "(050) 629-4302", "+971506294302"},
		{"whatsapp prefix stripped", "whatsapp:+971506294302", "+971506294302"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input))
		})
	}
}

func TestIsValidUAEPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid with plus", "+971506294302", true},
		{"valid without plus", "971506294302", true},
		{"subscriber too short", "+97150629430", false},
		{"subscriber too long", "+9715062943021", false},
		{"wrong country code", "+989123456789", false},
		{"letters in subscriber", "+97150629430a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidUAEPhoneNumber(tt.input))
		})
	}
}

func TestMaskPhoneNumber(t *testing.T) {
	assert.Equal(t, "*********4302", MaskPhoneNumber("+971506294302"))
	assert.Equal(t, "123", MaskPhoneNumber("123"))
	assert.Equal(t, "", MaskPhoneNumber(""))
}
