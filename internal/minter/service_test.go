package minter

import (
	"testing"

	"landtoken-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMinterTest(t *testing.T) (RegistryGrant, *Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Asset{}, &domain.AssetBalance{}, &domain.AssetExemption{}, &domain.AssetEvent{},
	))
	svc := &Service{
		UnitPrice:         10,
		PlatformAccountID: uuid.New(),
		CustodyAccountID:  uuid.New(),
	}
	return svc.Grant(), svc, db
}

func TestMint_CreatesAssetAndBalances(t *testing.T) {
	grant, svc, db := setupMinterTest(t)
	ownerID := uuid.New()

	asset, err := grant.Mint(db, ownerID, 6900000, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusPending, asset.Status)
	assert.Equal(t, ownerID, asset.OriginalOwnerID)
	assert.Equal(t, 0, asset.TotalSupply.Cmp(domain.WholeTokens(690000)))
	assert.Equal(t, 0, asset.OwnerFloor.Cmp(domain.WholeTokens(351900)))

	var balances []domain.AssetBalance
	require.NoError(t, db.Where("asset_id = ?", asset.AssetID).Find(&balances).Error)
	require.Len(t, balances, 3)

	byHolder := map[uuid.UUID]domain.TokenAmount{}
	for _, b := range balances {
		byHolder[b.HolderID] = b.Balance
	}
	assert.Equal(t, 0, byHolder[ownerID].Cmp(domain.WholeTokens(351900)))
	assert.Equal(t, 0, byHolder[svc.PlatformAccountID].Cmp(domain.WholeTokens(17250)))
	assert.Equal(t, 0, byHolder[svc.CustodyAccountID].Cmp(domain.WholeTokens(320850)))

	// custody account is lock-exempt from mint time
	var exemption domain.AssetExemption
	require.NoError(t, db.Where("asset_id = ? AND holder_id = ?", asset.AssetID, svc.CustodyAccountID).First(&exemption).Error)

	var event domain.AssetEvent
	require.NoError(t, db.Where("event_type = ?", domain.EventMinted).First(&event).Error)
	assert.Equal(t, asset.AssetID, *event.AssetID)
}

func TestMint_DuplicatePropertyFails(t *testing.T) {
	grant, _, db := setupMinterTest(t)
	ownerID := uuid.New()

	_, err := grant.Mint(db, ownerID, 6900000, "prop-1")
	require.NoError(t, err)

	_, err = grant.Mint(db, ownerID, 6900000, "prop-1")
	assert.ErrorIs(t, err, ErrAlreadyMinted)
}

func TestMint_InvalidValuation(t *testing.T) {
	grant, _, db := setupMinterTest(t)

	_, err := grant.Mint(db, uuid.New(), 5, "prop-tiny")
	assert.ErrorIs(t, err, ErrInvalidValuation)

	var count int64
	require.NoError(t, db.Model(&domain.Asset{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
