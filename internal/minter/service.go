package minter

import (
	"encoding/json"
	"errors"
	"time"

	"landtoken-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAlreadyMinted = errors.New("Asset already minted for this property")

// Service creates the per-property asset ledger and distributes the fixed
// allocation. It has no HTTP surface: minting happens only inside the
// registry's approval transaction, through the RegistryGrant.
type Service struct {
	UnitPrice         float64   // valuation units per whole token
	PlatformAccountID uuid.UUID // receives the 2.5% platform fee
	CustodyAccountID  uuid.UUID // holds the public share pending distribution
}

// RegistryGrant exposes Mint to the registry only.
type RegistryGrant struct {
	s *Service
}

// Grant returns the registry-only capability for this minter.
func (s *Service) Grant() RegistryGrant {
	return RegistryGrant{s: s}
}

// Mint computes the allocation for the valuation and creates the asset ledger
// with its three initial balances, inside the registry's transaction. The
// custody account is marked lock-exempt so the undistributed public share can
// move before verification and during the owner lock window.
func (g RegistryGrant) Mint(tx *gorm.DB, ownerID uuid.UUID, valuation float64, propertyID string) (*domain.Asset, error) {
	var existing domain.Asset
	err := tx.Where("property_id = ?", propertyID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyMinted
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	alloc, err := ComputeAllocation(valuation, g.s.UnitPrice)
	if err != nil {
		return nil, err
	}

	asset := domain.Asset{
		PropertyID:      propertyID,
		OriginalOwnerID: ownerID,
		TotalSupply:     alloc.TotalSupply,
		OwnerFloor:      alloc.OwnerShare,
		Status:          domain.AssetStatusPending,
		DeployedAt:      time.Now(),
	}
	if err := tx.Create(&asset).Error; err != nil {
		return nil, err
	}

	credits := []domain.AssetBalance{
		{AssetID: asset.AssetID, HolderID: ownerID, Balance: alloc.OwnerShare},
		{AssetID: asset.AssetID, HolderID: g.s.PlatformAccountID, Balance: alloc.PlatformFee},
		{AssetID: asset.AssetID, HolderID: g.s.CustodyAccountID, Balance: alloc.PublicShare},
	}
	for i := range credits {
		if err := tx.Create(&credits[i]).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Create(&domain.AssetExemption{
		AssetID:  asset.AssetID,
		HolderID: g.s.CustodyAccountID,
	}).Error; err != nil {
		return nil, err
	}

	eventData, _ := json.Marshal(map[string]interface{}{
		"total_supply": alloc.TotalSupply,
		"owner_share":  alloc.OwnerShare,
		"platform_fee": alloc.PlatformFee,
		"public_share": alloc.PublicShare,
	})
	if err := tx.Create(&domain.AssetEvent{
		EventType:  domain.EventMinted,
		PropertyID: &propertyID,
		AssetID:    &asset.AssetID,
		ActorID:    &ownerID,
		EventData:  datatypes.JSON(eventData),
	}).Error; err != nil {
		return nil, err
	}

	return &asset, nil
}
