// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/repository"
	"github.com/amirphl/Kitsune/utils"
	"gorm.io/gorm"
)

// AuthFlow handles phone verification and session token operations
type AuthFlow interface {
	SendCode(ctx context.Context, request *dto.SendCodeRequest, metadata *ClientMetadata) (*dto.SendCodeResponse, error)
	VerifyCode(ctx context.Context, request *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.VerifyCodeResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	codeRepo        repository.VerificationCodeRepository
	staffDirectory  StaffDirectory
	tokenService    services.TokenService
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	codeRepo repository.VerificationCodeRepository,
	staffDirectory StaffDirectory,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		codeRepo:        codeRepo,
		staffDirectory:  staffDirectory,
		tokenService:    tokenService,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// SendCode issues a fresh verification code for a phone number and delivers
// it over WhatsApp. Previously issued codes for the number are discarded, so
// only the latest code is ever honored.
func (af *AuthFlowImpl) SendCode(ctx context.Context, request *dto.SendCodeRequest, metadata *ClientMetadata) (*dto.SendCodeResponse, error) {
	phoneNumber := utils.NormalizePhoneNumber(request.PhoneNumber)
	if !utils.IsValidUAEPhoneNumber(phoneNumber) {
		return nil, NewBusinessError("INVALID_PHONE_NUMBER", "Invalid phone number", ErrInvalidPhoneNumber)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, NewBusinessError("CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	_, err = af.WithSendCodeTransaction(ctx, func(ctx context.Context) (*dto.SendCodeResponse, error) {
		// Drop older codes first so the new one is the only valid code
		if err := af.codeRepo.DeleteByPhone(ctx, phoneNumber); err != nil {
			return nil, err
		}

		verification := &models.VerificationCode{
			PhoneNumber: phoneNumber,
			Code:        code,
			ExpiresAt:   utils.UTCNowAdd(utils.VerificationCodeExpiry),
		}
		if err := af.codeRepo.Save(ctx, verification); err != nil {
			return nil, err
		}

		return &dto.SendCodeResponse{}, nil
	})
	if err != nil {
		return nil, NewBusinessError("SEND_CODE_FAILED", "Failed to issue verification code", err)
	}

	message := fmt.Sprintf("Your login code is: %s. This code will expire in 10 minutes.", code)
	delivery, err := af.notificationSvc.Send(ctx, phoneNumber, message)
	if err != nil {
		return nil, NewBusinessError(dto.ErrorServiceNotConfigured, "WhatsApp service not configured", err)
	}
	if !delivery.Success {
		return nil, NewBusinessErrorf(dto.ErrorCodeSendFailed, "Failed to send verification code: %s", ErrVerificationSendFault, delivery.Error)
	}

	resp := &dto.SendCodeResponse{
		Success: true,
		Message: "Verification code sent",
	}
	resp.Data.MaskedPhone = utils.MaskPhoneNumber(phoneNumber)
	resp.Data.MessageID = delivery.MessageID
	resp.Data.ExpiresIn = utils.VerificationCodeExpirySeconds

	return resp, nil
}

// VerifyCode exchanges a valid verification code for a session token. The
// code is removed on success so it can never be used twice.
func (af *AuthFlowImpl) VerifyCode(ctx context.Context, request *dto.VerifyCodeRequest, metadata *ClientMetadata) (*dto.VerifyCodeResponse, error) {
	phoneNumber := utils.NormalizePhoneNumber(request.PhoneNumber)
	if !utils.IsValidUAEPhoneNumber(phoneNumber) {
		return nil, NewBusinessError("INVALID_PHONE_NUMBER", "Invalid phone number", ErrInvalidPhoneNumber)
	}

	var staff *models.Staff

	resp, err := af.WithVerifyCodeTransaction(ctx, func(ctx context.Context) (*dto.VerifyCodeResponse, error) {
		verification, err := af.codeRepo.ActiveByPhoneAndCode(ctx, phoneNumber, request.Code)
		if err != nil {
			return nil, err
		}
		if verification == nil {
			return nil, ErrNoValidCodeFound
		}

		// Single use
		if err := af.codeRepo.DeleteByID(ctx, verification.ID); err != nil {
			return nil, err
		}

		staff, err = af.staffDirectory.ByPhoneNumber(ctx, phoneNumber)
		if err != nil {
			return nil, err
		}
		if staff == nil {
			return nil, ErrStaffNotFound
		}
		if !utils.IsTrue(staff.IsActive) {
			return nil, ErrStaffInactive
		}

		token, _, err := af.tokenService.IssueToken(staff.ID, staff.PhoneNumber)
		if err != nil {
			return nil, err
		}

		out := &dto.VerifyCodeResponse{
			Success: true,
			Message: "Login successful",
		}
		out.Data.Token = token
		out.Data.TokenType = "Bearer"
		out.Data.ExpiresIn = utils.SessionTokenTTLSeconds
		out.Data.User = ToStaffInfo(*staff)

		return out, nil
	})
	if err != nil {
		if IsNoValidCodeFound(err) {
			// Lazy cleanup of stale rows for this number. Runs outside the
			// transaction so the failed verify's rollback cannot undo it.
			_ = af.codeRepo.DeleteExpiredByPhone(ctx, phoneNumber)
		}
		return nil, NewBusinessError("VERIFY_CODE_FAILED", "Verification failed", err)
	}

	return resp, nil
}

// RefreshToken exchanges a still-valid session token for a fresh one
func (af *AuthFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	token, _, err := af.tokenService.RefreshToken(request.Token)
	if err != nil {
		return nil, err
	}

	resp := &dto.RefreshTokenResponse{
		Success: true,
		Message: "Token refreshed",
	}
	resp.Data.Token = token
	resp.Data.TokenType = "Bearer"
	resp.Data.ExpiresIn = utils.SessionTokenTTLSeconds

	return resp, nil
}

// GenerateVerificationCode returns a secure 6-digit code drawn uniformly
// from [100000, 999999].
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (af *AuthFlowImpl) WithSendCodeTransaction(ctx context.Context, fn func(context.Context) (*dto.SendCodeResponse, error)) (*dto.SendCodeResponse, error) {
	var result *dto.SendCodeResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (af *AuthFlowImpl) WithVerifyCodeTransaction(ctx context.Context, fn func(context.Context) (*dto.VerifyCodeResponse, error)) (*dto.VerifyCodeResponse, error) {
	var result *dto.VerifyCodeResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
