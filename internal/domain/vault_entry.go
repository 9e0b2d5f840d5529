package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VaultEntry journal types.
const (
	VaultEntryDeposit           = "deposit"
	VaultEntryRelease           = "release"
	VaultEntryBonusRelease      = "bonus_release"
	VaultEntrySlash             = "slash"
	VaultEntryPoolFund          = "pool_fund"
	VaultEntryPoolWithdraw      = "pool_withdraw"
	VaultEntryEmergencyWithdraw = "emergency_withdraw"
)

// VaultEntry is one row of the escrow vault journal. Amount is the stake
// movement; Payout is what left custody toward the owner; PoolDelta and
// TreasuryDelta record the bonus-pool and treasury sides of the same operation.
type VaultEntry struct {
	EntryID       uuid.UUID  `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	Type          string     `gorm:"column:type;type:varchar(30);not null" json:"type"`
	OwnerID       *uuid.UUID `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`
	PropertyID    *string    `gorm:"column:property_id" json:"property_id"`
	Amount        float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Payout        float64    `gorm:"column:payout;type:decimal(18,2);not null;default:0" json:"payout"`
	PoolDelta     float64    `gorm:"column:pool_delta;type:decimal(18,2);not null;default:0" json:"pool_delta"`
	TreasuryDelta float64    `gorm:"column:treasury_delta;type:decimal(18,2);not null;default:0" json:"treasury_delta"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (VaultEntry) TableName() string {
	return "VaultEntries"
}

func (e *VaultEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}
