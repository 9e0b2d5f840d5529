package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetEvent types.
const (
	EventRegistered       = "REGISTERED"
	EventVerified         = "VERIFIED"
	EventRejected         = "REJECTED"
	EventSlashed          = "SLASHED"
	EventMinted           = "MINTED"
	EventTransfer         = "TRANSFER"
	EventBurn             = "BURN"
	EventTradingActivated = "TRADING_ACTIVATED"
	EventExemptionSet     = "EXEMPTION_SET"
)

// AssetEvent is the registry/ledger audit journal. EventData carries the
// operation payload (amounts, counterparties, evidence refs) as JSON.
type AssetEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	PropertyID *string        `gorm:"column:property_id;index" json:"property_id"`
	AssetID    *uuid.UUID     `gorm:"column:asset_id;type:uuid;index" json:"asset_id"`
	ActorID    *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (AssetEvent) TableName() string {
	return "AssetEvents"
}

func (e *AssetEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
