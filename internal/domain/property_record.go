package domain

import (
	"time"

	"github.com/google/uuid"
)

// PropertyRecord lifecycle statuses. Transitions are fixed:
// pending -> verified | rejected | slashed, verified -> trading.
const (
	RecordStatusPending  = "pending"
	RecordStatusVerified = "verified"
	RecordStatusRejected = "rejected"
	RecordStatusSlashed  = "slashed"
	RecordStatusTrading  = "trading"
)

// PropertyRecord is a registered physical asset awaiting (or past) review.
// PropertyID is the deterministic sha256 identity derived from the survey
// number, coordinates and the official registration date.
type PropertyRecord struct {
	PropertyID       string     `gorm:"column:property_id;primaryKey" json:"property_id"`
	OwnerID          uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	SurveyNumber     string     `gorm:"column:survey_number;not null" json:"survey_number"`
	Location         string     `gorm:"column:location;not null" json:"location"`
	Latitude         float64    `gorm:"column:latitude;not null" json:"latitude"`
	Longitude        float64    `gorm:"column:longitude;not null" json:"longitude"`
	AreaSqm          float64    `gorm:"column:area_sqm;type:decimal(18,2);not null" json:"area_sqm"`
	Valuation        float64    `gorm:"column:valuation;type:decimal(18,2);not null" json:"valuation"`
	DocumentRef      string     `gorm:"column:document_ref;not null" json:"document_ref"`
	CollateralAmount float64    `gorm:"column:collateral_amount;type:decimal(18,2);not null" json:"collateral_amount"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	AssetID          *uuid.UUID `gorm:"column:asset_id;type:uuid" json:"asset_id"`
	Deciding         bool       `gorm:"column:deciding;not null;default:false" json:"-"`
	RegisteredAt     time.Time  `gorm:"column:registered_at;not null" json:"registered_at"`
	VerifiedAt       *time.Time `gorm:"column:verified_at" json:"verified_at"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (PropertyRecord) TableName() string {
	return "PropertyRecords"
}

// BlacklistedProperty permanently bars a slashed record identity from
// re-registration.
type BlacklistedProperty struct {
	PropertyID  string    `gorm:"column:property_id;primaryKey" json:"property_id"`
	EvidenceRef string    `gorm:"column:evidence_ref;not null" json:"evidence_ref"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (BlacklistedProperty) TableName() string {
	return "BlacklistedProperties"
}
