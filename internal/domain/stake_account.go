package domain

import (
	"time"

	"github.com/google/uuid"
)

// StakeAccount is the per-owner running collateral balance held in escrow.
// DepositedAt tracks the most recent deposit; the emergency-withdraw grace
// window is measured from it.
type StakeAccount struct {
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;primaryKey" json:"owner_id"`
	Balance     float64   `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	DepositedAt time.Time `gorm:"column:deposited_at;not null" json:"deposited_at"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (StakeAccount) TableName() string {
	return "StakeAccounts"
}

// BonusPool is the segregated, explicitly funded reserve that pays approval
// bonuses. Singleton row (ID 1). Available must never go negative; any payout
// that would overdraw it fails before touching state.
type BonusPool struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"-"`
	Available float64   `gorm:"column:available;type:decimal(18,2);not null;default:0" json:"available"`
	TotalPaid float64   `gorm:"column:total_paid;type:decimal(18,2);not null;default:0" json:"total_paid"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BonusPool) TableName() string {
	return "BonusPool"
}

// TreasuryAccount accumulates the treasury half of slashes. Singleton row (ID 1).
type TreasuryAccount struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"-"`
	Balance   float64   `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TreasuryAccount) TableName() string {
	return "TreasuryAccount"
}
