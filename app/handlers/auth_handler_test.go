package handlers

import (
	"testing"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCodeRequestPhoneValidation(t *testing.T) {
	h := NewAuthHandler(nil)

	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"e164 form", "+971506294302", false},
		{"local form", "0506294302", false},
		{"bare country code", "971506294302", false},
		{"non-uae number", "+14155550100", true},
		{"too short", "050123", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.validator.Struct(&dto.SendCodeRequest{PhoneNumber: tt.phone})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyCodeRequestPhoneValidation(t *testing.T) {
	h := NewAuthHandler(nil)

	err := h.validator.Struct(&dto.VerifyCodeRequest{PhoneNumber: "+14155550100", Code: "123456"})
	require.Error(t, err)
	verrs := err.(validator.ValidationErrors)
	require.Len(t, verrs, 1)
	assert.Equal(t, "uae_phone", verrs[0].Tag())

	err = h.validator.Struct(&dto.VerifyCodeRequest{PhoneNumber: "0506294302", Code: "123456"})
	assert.NoError(t, err)
}
