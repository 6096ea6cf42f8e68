package businessflow

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/amirphl/Kitsune/app/dto"
	"github.com/amirphl/Kitsune/app/services"
	"github.com/amirphl/Kitsune/config"
	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/repository"
	testingutil "github.com/amirphl/Kitsune/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFlowHarness struct {
	flow     AuthFlow
	fixtures *testingutil.TestFixtures
	whatsapp *services.MockWhatsAppService
	testDB   *testingutil.TestDB
}

func setupAuthFlow(t *testing.T) *authFlowHarness {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testDB.TeardownTestDB()
	})
	require.NoError(t, testDB.ClearAllTables())

	codeRepo := repository.NewVerificationCodeRepository(testDB.DB)
	staffRepo := repository.NewStaffRepository(testDB.DB)
	staffDirectory := NewStaffDirectory(staffRepo, nil, &config.CacheConfig{})

	whatsapp := services.NewMockWhatsAppService()
	notificationSvc := services.NewNotificationService(whatsapp)

	tokenService, err := services.NewTokenService(
		24*time.Hour,
		"test-issuer",
		"test-audience",
		"test-secret-key-with-at-least-32-characters",
	)
	require.NoError(t, err)

	flow := NewAuthFlow(codeRepo, staffDirectory, tokenService, notificationSvc, testDB.DB)

	return &authFlowHarness{
		flow:     flow,
		fixtures: testingutil.NewTestFixtures(testDB),
		whatsapp: whatsapp,
		testDB:   testDB,
	}
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestSendCodeDeliversLatestCodeOnly(t *testing.T) {
	h := setupAuthFlow(t)

	staff, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	resp, err := h.flow.SendCode(context.Background(), &dto.SendCodeRequest{PhoneNumber: staff.PhoneNumber}, testMetadata())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.MessageID)
	assert.Equal(t, 600, resp.Data.ExpiresIn)

	// Issue a second code; the first must be discarded
	_, err = h.flow.SendCode(context.Background(), &dto.SendCodeRequest{PhoneNumber: staff.PhoneNumber}, testMetadata())
	require.NoError(t, err)

	var count int64
	require.NoError(t, h.testDB.DB.Model(&models.VerificationCode{}).
		Where("phone_number = ?", staff.PhoneNumber).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Len(t, h.whatsapp.GetSentMessages(), 2)
}

func TestSendCodeRejectsInvalidPhone(t *testing.T) {
	h := setupAuthFlow(t)

	_, err := h.flow.SendCode(context.Background(), &dto.SendCodeRequest{PhoneNumber: "+98912"}, testMetadata())
	assert.True(t, IsInvalidPhoneNumber(err))
}

func TestSendCodeProviderNotConfigured(t *testing.T) {
	h := setupAuthFlow(t)
	h.whatsapp.Configured = false

	staff, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	_, err = h.flow.SendCode(context.Background(), &dto.SendCodeRequest{PhoneNumber: staff.PhoneNumber}, testMetadata())
	assert.True(t, errors.Is(err, services.ErrWhatsAppNotConfigured))
}

func TestVerifyCodeIssuesSessionToken(t *testing.T) {
	h := setupAuthFlow(t)

	staff, err := h.fixtures.CreateTestStaff("Dr. (CA) Amit Garg")
	require.NoError(t, err)

	_, err = h.fixtures.CreateTestVerificationCode(staff.PhoneNumber, "123456")
	require.NoError(t, err)

	resp, err := h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: staff.PhoneNumber,
		Code:        "123456",
	}, testMetadata())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.Equal(t, staff.ID, resp.Data.User.ID)
	assert.Equal(t, staff.Name, resp.Data.User.Name)

	// The code is single use
	_, err = h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: staff.PhoneNumber,
		Code:        "123456",
	}, testMetadata())
	assert.True(t, IsNoValidCodeFound(err))
}

func TestVerifyCodeRejectsExpiredCode(t *testing.T) {
	h := setupAuthFlow(t)

	staff, err := h.fixtures.CreateTestStaff("Mr. Sumesh Paul")
	require.NoError(t, err)

	_, err = h.fixtures.CreateExpiredVerificationCode(staff.PhoneNumber, "654321")
	require.NoError(t, err)

	_, err = h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: staff.PhoneNumber,
		Code:        "654321",
	}, testMetadata())
	assert.True(t, IsNoValidCodeFound(err))

	// The failed verify lazily purges the expired rows, and the purge must
	// survive the rollback of the failed verification itself
	var count int64
	require.NoError(t, h.testDB.DB.Model(&models.VerificationCode{}).
		Where("phone_number = ?", staff.PhoneNumber).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifyCodeSupersededByNewerCode(t *testing.T) {
	h := setupAuthFlow(t)

	staff, err := h.fixtures.CreateTestStaff("Mr. Prabhakaran")
	require.NoError(t, err)

	_, err = h.fixtures.CreateTestVerificationCode(staff.PhoneNumber, "111111")
	require.NoError(t, err)

	// Requesting a new code invalidates the previous one
	_, err = h.flow.SendCode(context.Background(), &dto.SendCodeRequest{PhoneNumber: staff.PhoneNumber}, testMetadata())
	require.NoError(t, err)

	_, err = h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: staff.PhoneNumber,
		Code:        "111111",
	}, testMetadata())
	assert.True(t, IsNoValidCodeFound(err))
}

func TestVerifyCodeUnknownStaff(t *testing.T) {
	h := setupAuthFlow(t)

	_, err := h.fixtures.CreateTestVerificationCode("+971501112233", "123456")
	require.NoError(t, err)

	_, err = h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: "+971501112233",
		Code:        "123456",
	}, testMetadata())
	assert.True(t, IsStaffNotFound(err))
}

func TestVerifyCodeInactiveStaff(t *testing.T) {
	h := setupAuthFlow(t)

	staff, err := h.fixtures.CreateInactiveStaff("Former Employee")
	require.NoError(t, err)

	_, err = h.fixtures.CreateTestVerificationCode(staff.PhoneNumber, "123456")
	require.NoError(t, err)

	_, err = h.flow.VerifyCode(context.Background(), &dto.VerifyCodeRequest{
		PhoneNumber: staff.PhoneNumber,
		Code:        "123456",
	}, testMetadata())
	assert.True(t, IsStaffInactive(err))
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
