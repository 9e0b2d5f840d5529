package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset ledger lifecycle statuses, one-directional and driven only by the
// registry: pending -> verified -> trading.
const (
	AssetStatusPending  = "pending"
	AssetStatusVerified = "verified"
	AssetStatusTrading  = "trading"
)

// BurnIdentity is the null holder; a transfer from it is a mint and a transfer
// to it is a burn.
var BurnIdentity = uuid.Nil

// Asset is the per-property token ledger head. OwnerFloor is the original
// owner's share at mint time; during the lock window the owner may not drop
// below max(OwnerFloor, 51% of current TotalSupply).
type Asset struct {
	AssetID         uuid.UUID   `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	PropertyID      string      `gorm:"column:property_id;uniqueIndex;not null" json:"property_id"`
	OriginalOwnerID uuid.UUID   `gorm:"column:original_owner_id;type:uuid;not null" json:"original_owner_id"`
	TotalSupply     TokenAmount `gorm:"column:total_supply;type:varchar(80);not null;default:0" json:"total_supply"`
	OwnerFloor      TokenAmount `gorm:"column:owner_floor;type:varchar(80);not null;default:0" json:"owner_floor"`
	Status          string      `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	DeployedAt      time.Time   `gorm:"column:deployed_at;not null" json:"deployed_at"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func (Asset) TableName() string {
	return "Assets"
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}

// AssetBalance is one holder's balance on one asset ledger. The sum of all
// balances of an asset always equals its TotalSupply.
type AssetBalance struct {
	BalanceID uuid.UUID   `gorm:"column:balance_id;type:uuid;primaryKey" json:"balance_id"`
	AssetID   uuid.UUID   `gorm:"column:asset_id;type:uuid;not null;uniqueIndex:idx_asset_holder" json:"asset_id"`
	HolderID  uuid.UUID   `gorm:"column:holder_id;type:uuid;not null;uniqueIndex:idx_asset_holder" json:"holder_id"`
	Balance   TokenAmount `gorm:"column:balance;type:varchar(80);not null;default:0" json:"balance"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (AssetBalance) TableName() string {
	return "AssetBalances"
}

func (b *AssetBalance) BeforeCreate(tx *gorm.DB) error {
	if b.BalanceID == uuid.Nil {
		b.BalanceID = uuid.New()
	}
	return nil
}

// AssetExemption marks a holder as lock-exempt on one asset (infrastructure
// identities moving tokens in transit, e.g. minter custody or pool holders).
type AssetExemption struct {
	ExemptionID uuid.UUID `gorm:"column:exemption_id;type:uuid;primaryKey" json:"exemption_id"`
	AssetID     uuid.UUID `gorm:"column:asset_id;type:uuid;not null;uniqueIndex:idx_asset_exempt" json:"asset_id"`
	HolderID    uuid.UUID `gorm:"column:holder_id;type:uuid;not null;uniqueIndex:idx_asset_exempt" json:"holder_id"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (AssetExemption) TableName() string {
	return "AssetExemptions"
}

func (e *AssetExemption) BeforeCreate(tx *gorm.DB) error {
	if e.ExemptionID == uuid.Nil {
		e.ExemptionID = uuid.New()
	}
	return nil
}
