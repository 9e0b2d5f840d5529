package vault

import (
	"context"
	"testing"
	"time"

	"landtoken-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVaultTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.StakeAccount{}, &domain.BonusPool{}, &domain.TreasuryAccount{}, &domain.VaultEntry{},
	))
	return &Service{DB: db}, db
}

func TestDeposit_CreatesAndAccumulates(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	account, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, account.Balance)

	account, err = svc.Deposit(ctx, ownerID, 50.5)
	require.NoError(t, err)
	assert.Equal(t, 150.5, account.Balance)

	var entries []domain.VaultEntry
	require.NoError(t, db.Where("owner_id = ?", ownerID).Find(&entries).Error)
	assert.Len(t, entries, 2)
	assert.Equal(t, domain.VaultEntryDeposit, entries[0].Type)
}

func TestDeposit_InvalidAmount(t *testing.T) {
	svc, _ := setupVaultTest(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Deposit(ctx, uuid.New(), -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRelease_WithBonus(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)
	_, err = svc.FundBonusPool(ctx, uuid.New(), 500)
	require.NoError(t, err)

	result, err := svc.Grant().Release(db, ownerID, "prop-1", 100, true)
	require.NoError(t, err)
	assert.Equal(t, 102.0, result.Payout)
	assert.Equal(t, 2.0, result.BonusAmount)
	assert.Equal(t, 0.0, result.FeeAmount)

	account, err := svc.StakeOf(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, account.Balance)

	pool, err := svc.BonusPoolStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 498.0, pool.Available)
	assert.Equal(t, 2.0, pool.TotalPaid)
}

func TestRelease_WithoutBonus_FeeBackToPool(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)

	result, err := svc.Grant().Release(db, ownerID, "prop-1", 100, false)
	require.NoError(t, err)
	assert.Equal(t, 99.0, result.Payout)
	assert.Equal(t, 1.0, result.FeeAmount)

	pool, err := svc.BonusPoolStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pool.Available)
	assert.Equal(t, 0.0, pool.TotalPaid)
}

func TestRelease_InsufficientPoolRefusedAtomically(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)
	// pool has only 1.00, bonus would need 2.00

	_, err = svc.FundBonusPool(ctx, uuid.New(), 1)
	require.NoError(t, err)

	_, err = svc.Grant().Release(db, ownerID, "prop-1", 100, true)
	var poolErr *InsufficientBonusPoolError
	require.ErrorAs(t, err, &poolErr)
	assert.Equal(t, 2.0, poolErr.Required)
	assert.Equal(t, 1.0, poolErr.Available)

	// nothing moved
	account, err := svc.StakeOf(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, account.Balance)
	pool, err := svc.BonusPoolStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pool.Available)
	assert.Equal(t, 0.0, pool.TotalPaid)
}

func TestRelease_InsufficientStake(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 50)
	require.NoError(t, err)

	_, err = svc.Grant().Release(db, ownerID, "prop-1", 100, false)
	var stakeErr *InsufficientStakeError
	require.ErrorAs(t, err, &stakeErr)
	assert.Equal(t, 100.0, stakeErr.Required)
	assert.Equal(t, 50.0, stakeErr.Available)
}

func TestSlash_SplitsFiftyFifty(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 200)
	require.NoError(t, err)

	result, err := svc.Grant().Slash(db, ownerID, "prop-1", 200)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.PoolShare)
	assert.Equal(t, 100.0, result.TreasuryShare)

	account, err := svc.StakeOf(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, account.Balance)

	pool, err := svc.BonusPoolStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, pool.Available)

	var treasury domain.TreasuryAccount
	require.NoError(t, db.First(&treasury).Error)
	assert.Equal(t, 100.0, treasury.Balance)

	var entry domain.VaultEntry
	require.NoError(t, db.Where("type = ?", domain.VaultEntrySlash).First(&entry).Error)
	assert.Equal(t, 100.0, entry.PoolDelta)
	assert.Equal(t, 100.0, entry.TreasuryDelta)
}

func TestEmergencyWithdraw_BeforeWindow(t *testing.T) {
	svc, _ := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)

	_, err = svc.EmergencyWithdraw(ctx, ownerID)
	var windowErr *EmergencyWindowError
	require.ErrorAs(t, err, &windowErr)
	assert.True(t, windowErr.AvailableAt.After(time.Now()))

	account, err := svc.StakeOf(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, account.Balance)
}

func TestEmergencyWithdraw_AfterWindow(t *testing.T) {
	svc, db := setupVaultTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := svc.Deposit(ctx, ownerID, 100)
	require.NoError(t, err)

	// backdate the deposit past the verification window plus grace period
	past := time.Now().Add(-(VerificationWindow + GracePeriod + time.Hour))
	require.NoError(t, db.Model(&domain.StakeAccount{}).
		Where("owner_id = ?", ownerID).
		Update("deposited_at", past).Error)

	payout, err := svc.EmergencyWithdraw(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, payout)

	account, err := svc.StakeOf(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, account.Balance)

	// nothing left to withdraw the second time
	_, err = svc.EmergencyWithdraw(ctx, ownerID)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
}

func TestEmergencyWithdrawBonusPool_Guarded(t *testing.T) {
	svc, _ := setupVaultTest(t)
	ctx := context.Background()
	actorID := uuid.New()

	_, err := svc.FundBonusPool(ctx, actorID, 100)
	require.NoError(t, err)

	_, err = svc.EmergencyWithdrawBonusPool(ctx, actorID, 150)
	var poolErr *InsufficientBonusPoolError
	require.ErrorAs(t, err, &poolErr)

	pool, err := svc.EmergencyWithdrawBonusPool(ctx, actorID, 40)
	require.NoError(t, err)
	assert.Equal(t, 60.0, pool.Available)
}

func TestStakeOf_NotFound(t *testing.T) {
	svc, _ := setupVaultTest(t)
	_, err := svc.StakeOf(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStakeNotFound)
}
