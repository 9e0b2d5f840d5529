package vault

import (
	"context"
	"math"
	"time"

	"landtoken-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vault rates and windows.
const (
	BonusRate     = 0.02 // paid on top of the stake on approval, from the bonus pool
	RejectFeeRate = 0.01 // withheld on rejection, credited back to the bonus pool
	SlashPoolRate = 0.5  // slashed stake split between bonus pool and treasury

	// Emergency self-service withdraw opens after the reviewer's verification
	// window plus a grace period, measured from the latest deposit. The vault
	// must not trap funds when the external decision authority stalls.
	VerificationWindow = 72 * time.Hour
	GracePeriod        = 7 * 24 * time.Hour
)

// Service is the escrow vault: it custodies stake deposits, owns the bonus
// pool and the treasury account, and executes payouts and slashes. Release and
// Slash are reachable only through the RegistryGrant.
type Service struct {
	DB *gorm.DB
}

// RegistryGrant exposes the vault operations only the registry may drive.
// It is handed out once at wiring time; handlers never see it.
type RegistryGrant struct {
	s *Service
}

// Grant returns the registry-only capability for this vault.
func (s *Service) Grant() RegistryGrant {
	return RegistryGrant{s: s}
}

// ReleaseResult reports the outcome of a release for the decision journal.
type ReleaseResult struct {
	Payout      float64 `json:"payout"`
	BonusAmount float64 `json:"bonus_amount"`
	FeeAmount   float64 `json:"fee_amount"`
}

// SlashResult reports how a slashed stake was split.
type SlashResult struct {
	PoolShare     float64 `json:"pool_share"`
	TreasuryShare float64 `json:"treasury_share"`
}

// Deposit credits the caller's stake account and records the deposit time.
func (s *Service) Deposit(ctx context.Context, ownerID uuid.UUID, amount float64) (*domain.StakeAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var account domain.StakeAccount
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).First(&account).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			account = domain.StakeAccount{OwnerID: ownerID}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		account.Balance = round2(account.Balance + amount)
		account.DepositedAt = time.Now()
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		return tx.Create(&domain.VaultEntry{
			Type:    domain.VaultEntryDeposit,
			OwnerID: &ownerID,
			Amount:  amount,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FundBonusPool increments the pool's available balance (treasury role only,
// enforced at the route).
func (s *Service) FundBonusPool(ctx context.Context, actorID uuid.UUID, amount float64) (*domain.BonusPool, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var pool domain.BonusPool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := bonusPool(tx)
		if err != nil {
			return err
		}
		p.Available = round2(p.Available + amount)
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		pool = *p
		return tx.Create(&domain.VaultEntry{
			Type:      domain.VaultEntryPoolFund,
			OwnerID:   &actorID,
			Amount:    amount,
			PoolDelta: amount,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// Release debits the owner's stake inside the registry's transaction.
// With bonus: pays stake + 2%, the 2% coming out of the bonus pool — refused
// atomically when the pool cannot cover it. Without bonus: pays stake − 1%
// and credits the 1% fee back into the pool.
func (g RegistryGrant) Release(tx *gorm.DB, ownerID uuid.UUID, propertyID string, amount float64, bonus bool) (*ReleaseResult, error) {
	account, err := stakeAccount(tx, ownerID)
	if err != nil {
		return nil, err
	}
	if account.Balance < amount {
		return nil, &InsufficientStakeError{Required: amount, Available: account.Balance}
	}
	pool, err := bonusPool(tx)
	if err != nil {
		return nil, err
	}

	result := &ReleaseResult{}
	entry := domain.VaultEntry{
		OwnerID:    &ownerID,
		PropertyID: &propertyID,
		Amount:     amount,
	}

	if bonus {
		bonusAmt := round2(amount * BonusRate)
		if bonusAmt > pool.Available {
			return nil, &InsufficientBonusPoolError{Required: bonusAmt, Available: pool.Available}
		}
		pool.Available = round2(pool.Available - bonusAmt)
		pool.TotalPaid = round2(pool.TotalPaid + bonusAmt)
		result.BonusAmount = bonusAmt
		result.Payout = round2(amount + bonusAmt)
		entry.Type = domain.VaultEntryBonusRelease
		entry.PoolDelta = -bonusAmt
	} else {
		fee := round2(amount * RejectFeeRate)
		pool.Available = round2(pool.Available + fee)
		result.FeeAmount = fee
		result.Payout = round2(amount - fee)
		entry.Type = domain.VaultEntryRelease
		entry.PoolDelta = fee
	}
	entry.Payout = result.Payout

	account.Balance = round2(account.Balance - amount)
	if err := tx.Save(account).Error; err != nil {
		return nil, err
	}
	if err := tx.Save(pool).Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Slash debits the owner's stake and splits it 50/50 between the bonus pool
// and the treasury, inside the registry's transaction.
func (g RegistryGrant) Slash(tx *gorm.DB, ownerID uuid.UUID, propertyID string, amount float64) (*SlashResult, error) {
	account, err := stakeAccount(tx, ownerID)
	if err != nil {
		return nil, err
	}
	if account.Balance < amount {
		return nil, &InsufficientStakeError{Required: amount, Available: account.Balance}
	}
	pool, err := bonusPool(tx)
	if err != nil {
		return nil, err
	}
	treasury, err := treasuryAccount(tx)
	if err != nil {
		return nil, err
	}

	poolShare := round2(amount * SlashPoolRate)
	treasuryShare := round2(amount - poolShare)

	account.Balance = round2(account.Balance - amount)
	pool.Available = round2(pool.Available + poolShare)
	treasury.Balance = round2(treasury.Balance + treasuryShare)

	if err := tx.Save(account).Error; err != nil {
		return nil, err
	}
	if err := tx.Save(pool).Error; err != nil {
		return nil, err
	}
	if err := tx.Save(treasury).Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&domain.VaultEntry{
		Type:          domain.VaultEntrySlash,
		OwnerID:       &ownerID,
		PropertyID:    &propertyID,
		Amount:        amount,
		PoolDelta:     poolShare,
		TreasuryDelta: treasuryShare,
	}).Error; err != nil {
		return nil, err
	}
	return &SlashResult{PoolShare: poolShare, TreasuryShare: treasuryShare}, nil
}

// EmergencyWithdraw reclaims the caller's full stake balance once the
// verification window plus grace period has elapsed since the latest deposit,
// regardless of registry state.
func (s *Service) EmergencyWithdraw(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	var payout float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := stakeAccount(tx, ownerID)
		if err != nil {
			return err
		}
		if account.Balance <= 0 {
			return ErrNothingToWithdraw
		}
		availableAt := account.DepositedAt.Add(VerificationWindow + GracePeriod)
		if time.Now().Before(availableAt) {
			return &EmergencyWindowError{AvailableAt: availableAt}
		}
		payout = account.Balance
		account.Balance = 0
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return tx.Create(&domain.VaultEntry{
			Type:    domain.VaultEntryEmergencyWithdraw,
			OwnerID: &ownerID,
			Amount:  payout,
			Payout:  payout,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return payout, nil
}

// EmergencyWithdrawBonusPool drains up to the available pool balance
// (treasury role only, enforced at the route).
func (s *Service) EmergencyWithdrawBonusPool(ctx context.Context, actorID uuid.UUID, amount float64) (*domain.BonusPool, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var pool domain.BonusPool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := bonusPool(tx)
		if err != nil {
			return err
		}
		if amount > p.Available {
			return &InsufficientBonusPoolError{Required: amount, Available: p.Available}
		}
		p.Available = round2(p.Available - amount)
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		pool = *p
		return tx.Create(&domain.VaultEntry{
			Type:      domain.VaultEntryPoolWithdraw,
			OwnerID:   &actorID,
			Amount:    amount,
			Payout:    amount,
			PoolDelta: -amount,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// StakeOf returns the owner's stake account.
func (s *Service) StakeOf(ctx context.Context, ownerID uuid.UUID) (*domain.StakeAccount, error) {
	var account domain.StakeAccount
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStakeNotFound
		}
		return nil, err
	}
	return &account, nil
}

// BonusPoolStatus returns the singleton pool counters.
func (s *Service) BonusPoolStatus(ctx context.Context) (*domain.BonusPool, error) {
	var pool domain.BonusPool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := bonusPool(tx)
		if err != nil {
			return err
		}
		pool = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func stakeAccount(tx *gorm.DB, ownerID uuid.UUID) (*domain.StakeAccount, error) {
	var account domain.StakeAccount
	if err := tx.Where("owner_id = ?", ownerID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStakeNotFound
		}
		return nil, err
	}
	return &account, nil
}

func bonusPool(tx *gorm.DB) (*domain.BonusPool, error) {
	var pool domain.BonusPool
	if err := tx.Where(domain.BonusPool{ID: 1}).FirstOrCreate(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}

func treasuryAccount(tx *gorm.DB) (*domain.TreasuryAccount, error) {
	var treasury domain.TreasuryAccount
	if err := tx.Where(domain.TreasuryAccount{ID: 1}).FirstOrCreate(&treasury).Error; err != nil {
		return nil, err
	}
	return &treasury, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
