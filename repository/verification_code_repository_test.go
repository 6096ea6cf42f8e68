package repository

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/Kitsune/models"
	testingutil "github.com/amirphl/Kitsune/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCodeByFilterExpiryBounds(t *testing.T) {
	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testDB.TeardownTestDB()
	})
	require.NoError(t, testDB.ClearAllTables())

	repo := NewVerificationCodeRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := &models.VerificationCode{
		PhoneNumber: "+971506294302",
		Code:        "111111",
		ExpiresAt:   now.Add(-time.Minute),
	}
	active := &models.VerificationCode{
		PhoneNumber: "+971506294302",
		Code:        "222222",
		ExpiresAt:   now.Add(10 * time.Minute),
	}
	require.NoError(t, repo.Save(ctx, expired))
	require.NoError(t, repo.Save(ctx, active))

	fresh, err := repo.ByFilter(ctx, models.VerificationCodeFilter{ExpiresAfter: &now}, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "222222", fresh[0].Code)

	stale, err := repo.ByFilter(ctx, models.VerificationCodeFilter{ExpiresBefore: &now}, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "111111", stale[0].Code)

	count, err := repo.Count(ctx, models.VerificationCodeFilter{ExpiresBefore: &now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
