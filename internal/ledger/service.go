package ledger

import (
	"context"
	"encoding/json"
	"time"

	"landtoken-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OwnerLockPeriod is the window after deployment during which the original
// owner must keep max(mint-time floor, 51% of current total supply).
const OwnerLockPeriod = 180 * 24 * time.Hour

const (
	floorNum = 51
	floorDen = 100
)

// Service is the per-asset balance ledger. Transfers enforce, in order:
// mint/burn bypass for the null identity, the pre-verification freeze, the
// owner lock floor, then a plain debit/credit that preserves the conservation
// invariant (sum of balances == total supply).
type Service struct {
	DB *gorm.DB
}

// RegistryGrant exposes the lifecycle transition only the registry may drive.
type RegistryGrant struct {
	s *Service
}

// Grant returns the registry-only capability for this ledger.
func (s *Service) Grant() RegistryGrant {
	return RegistryGrant{s: s}
}

// SetStatus advances the asset lifecycle (pending -> verified -> trading)
// inside the registry's transaction.
func (g RegistryGrant) SetStatus(tx *gorm.DB, assetID uuid.UUID, status string) error {
	var asset domain.Asset
	if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrAssetNotFound
		}
		return err
	}
	asset.Status = status
	return tx.Save(&asset).Error
}

// Transfer moves amount from one holder to another on one asset ledger.
// A null from-identity is a mint, a null to-identity is a burn; both adjust
// total supply and bypass the lock checks.
func (s *Service) Transfer(ctx context.Context, assetID, fromID, toID uuid.UUID, amount domain.TokenAmount) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAssetNotFound
			}
			return err
		}

		// Mint: credit and grow supply.
		if fromID == domain.BurnIdentity {
			balance, err := holderBalance(tx, assetID, toID)
			if err != nil {
				return err
			}
			balance.Balance = balance.Balance.Add(amount)
			if err := tx.Save(balance).Error; err != nil {
				return err
			}
			asset.TotalSupply = asset.TotalSupply.Add(amount)
			if err := tx.Save(&asset).Error; err != nil {
				return err
			}
			return appendEvent(tx, &asset, domain.EventTransfer, fromID, toID, amount)
		}

		// Burn: debit and shrink supply.
		if toID == domain.BurnIdentity {
			balance, err := holderBalance(tx, assetID, fromID)
			if err != nil {
				return err
			}
			if balance.Balance.Cmp(amount) < 0 {
				return &InsufficientBalanceError{Requested: amount, Available: balance.Balance}
			}
			balance.Balance = balance.Balance.Sub(amount)
			if err := tx.Save(balance).Error; err != nil {
				return err
			}
			asset.TotalSupply = asset.TotalSupply.Sub(amount)
			if err := tx.Save(&asset).Error; err != nil {
				return err
			}
			return appendEvent(tx, &asset, domain.EventBurn, fromID, toID, amount)
		}

		exempt, err := isExempt(tx, assetID, fromID)
		if err != nil {
			return err
		}

		// No trading before verification.
		if asset.Status == domain.AssetStatusPending && !exempt {
			return ErrAssetNotActive
		}

		from, err := holderBalance(tx, assetID, fromID)
		if err != nil {
			return err
		}
		if from.Balance.Cmp(amount) < 0 {
			return &InsufficientBalanceError{Requested: amount, Available: from.Balance}
		}

		// Owner floor: recomputed against current supply so burns elsewhere
		// cannot lower the owner's effective percentage below 51%.
		lockedUntil := asset.DeployedAt.Add(OwnerLockPeriod)
		if fromID == asset.OriginalOwnerID && !exempt && time.Now().Before(lockedUntil) {
			floor := domain.MaxTokenAmount(asset.OwnerFloor, asset.TotalSupply.Percent(floorNum, floorDen))
			if from.Balance.Sub(amount).Cmp(floor) < 0 {
				return &OwnerLockError{
					Floor:       floor,
					Balance:     from.Balance,
					Requested:   amount,
					LockedUntil: lockedUntil,
				}
			}
		}

		to, err := holderBalance(tx, assetID, toID)
		if err != nil {
			return err
		}
		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		if err := tx.Save(from).Error; err != nil {
			return err
		}
		if err := tx.Save(to).Error; err != nil {
			return err
		}
		return appendEvent(tx, &asset, domain.EventTransfer, fromID, toID, amount)
	})
}

// Burn destroys amount from the holder's balance (transfer to the null identity).
func (s *Service) Burn(ctx context.Context, assetID, fromID uuid.UUID, amount domain.TokenAmount) error {
	return s.Transfer(ctx, assetID, fromID, domain.BurnIdentity, amount)
}

// SetLockExempt marks a holder as bypassing the lock checks on one asset.
func (s *Service) SetLockExempt(ctx context.Context, assetID, holderID uuid.UUID, actorID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAssetNotFound
			}
			return err
		}
		var exemption domain.AssetExemption
		err := tx.Where("asset_id = ? AND holder_id = ?", assetID, holderID).First(&exemption).Error
		if err == nil {
			return nil // already exempt
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(&domain.AssetExemption{AssetID: assetID, HolderID: holderID}).Error; err != nil {
			return err
		}
		eventData, _ := json.Marshal(map[string]interface{}{"holder_id": holderID})
		return tx.Create(&domain.AssetEvent{
			EventType:  domain.EventExemptionSet,
			PropertyID: &asset.PropertyID,
			AssetID:    &asset.AssetID,
			ActorID:    &actorID,
			EventData:  datatypes.JSON(eventData),
		}).Error
	})
}

// AssetByID returns the ledger head.
func (s *Service) AssetByID(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	if err := s.DB.WithContext(ctx).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Balances returns all holder balances of an asset.
func (s *Service) Balances(ctx context.Context, assetID uuid.UUID) ([]domain.AssetBalance, error) {
	if _, err := s.AssetByID(ctx, assetID); err != nil {
		return nil, err
	}
	var balances []domain.AssetBalance
	if err := s.DB.WithContext(ctx).Where("asset_id = ?", assetID).Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// BalanceOf returns one holder's balance (zero when no row exists).
func (s *Service) BalanceOf(ctx context.Context, assetID, holderID uuid.UUID) (domain.TokenAmount, error) {
	var balance domain.AssetBalance
	err := s.DB.WithContext(ctx).Where("asset_id = ? AND holder_id = ?", assetID, holderID).First(&balance).Error
	if err == gorm.ErrRecordNotFound {
		return domain.TokenAmount{}, nil
	}
	if err != nil {
		return domain.TokenAmount{}, err
	}
	return balance.Balance, nil
}

func holderBalance(tx *gorm.DB, assetID, holderID uuid.UUID) (*domain.AssetBalance, error) {
	var balance domain.AssetBalance
	err := tx.Where("asset_id = ? AND holder_id = ?", assetID, holderID).First(&balance).Error
	if err == gorm.ErrRecordNotFound {
		balance = domain.AssetBalance{AssetID: assetID, HolderID: holderID}
		if err := tx.Create(&balance).Error; err != nil {
			return nil, err
		}
		return &balance, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func isExempt(tx *gorm.DB, assetID, holderID uuid.UUID) (bool, error) {
	var exemption domain.AssetExemption
	err := tx.Where("asset_id = ? AND holder_id = ?", assetID, holderID).First(&exemption).Error
	if err == nil {
		return true, nil
	}
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return false, err
}

func appendEvent(tx *gorm.DB, asset *domain.Asset, eventType string, fromID, toID uuid.UUID, amount domain.TokenAmount) error {
	eventData, _ := json.Marshal(map[string]interface{}{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	})
	return tx.Create(&domain.AssetEvent{
		EventType:  eventType,
		PropertyID: &asset.PropertyID,
		AssetID:    &asset.AssetID,
		ActorID:    &fromID,
		EventData:  datatypes.JSON(eventData),
	}).Error
}
