package registry

import (
	"context"
	"encoding/json"
	"time"

	"landtoken-backend/internal/domain"
	"landtoken-backend/internal/ledger"
	"landtoken-backend/internal/minter"
	"landtoken-backend/internal/pkg/validation"
	"landtoken-backend/internal/vault"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MinCollateralRate is the required collateral as a fraction of valuation.
const MinCollateralRate = 0.05

// transitions is the fixed state table; anything else fails with
// InvalidTransitionError.
var transitions = map[string][]string{
	domain.RecordStatusPending:  {domain.RecordStatusVerified, domain.RecordStatusRejected, domain.RecordStatusSlashed},
	domain.RecordStatusVerified: {domain.RecordStatusTrading},
}

func canTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Service is the registry state machine, the only caller of the vault release/
// slash, minter mint and ledger lifecycle capabilities. Every operation runs
// in one transaction: the status change and all downstream effects commit
// together or not at all. Local record state is always written before the
// grants are invoked.
type Service struct {
	DB     *gorm.DB
	Vault  vault.RegistryGrant
	Minter minter.RegistryGrant
	Ledger ledger.RegistryGrant
}

// RegisterInput is the property metadata an owner submits. RegisteredAt is
// the official land-registry date of the deed, part of the identity hash.
type RegisterInput struct {
	SurveyNumber     string    `json:"survey_number"`
	Location         string    `json:"location"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	AreaSqm          float64   `json:"area_sqm"`
	Valuation        float64   `json:"valuation"`
	DocumentRef      string    `json:"document_ref"`
	CollateralAmount float64   `json:"collateral_amount"`
	RegisteredAt     time.Time `json:"registered_at"`
}

// Validate performs the structural checks; nothing is persisted on failure.
func (in *RegisterInput) Validate() error {
	switch {
	case in.SurveyNumber == "":
		return ErrInvalidSurveyNumber
	case in.Location == "":
		return ErrInvalidLocation
	case in.DocumentRef == "":
		return ErrInvalidDocumentRef
	case !validation.IsValidLatitude(in.Latitude) || !validation.IsValidLongitude(in.Longitude):
		return ErrInvalidCoordinates
	case !validation.IsPositiveAmount(in.AreaSqm):
		return ErrInvalidArea
	case !validation.IsPositiveAmount(in.Valuation):
		return ErrInvalidValuation
	case in.RegisteredAt.IsZero():
		return ErrInvalidRegisteredAt
	}
	required := in.Valuation * MinCollateralRate
	if in.CollateralAmount < required {
		return &CollateralShortfallError{Required: required, Pledged: in.CollateralAmount}
	}
	return nil
}

// DecisionResult reports the committed effects of a decision.
type DecisionResult struct {
	Record  *domain.PropertyRecord `json:"record"`
	Asset   *domain.Asset          `json:"asset,omitempty"`
	Release *vault.ReleaseResult   `json:"release,omitempty"`
	Slash   *vault.SlashResult     `json:"slash,omitempty"`
}

// Register creates a pending record after structural validation, identity
// dedupe, blacklist and stake-cover checks.
func (s *Service) Register(ctx context.Context, ownerID uuid.UUID, in RegisterInput) (*domain.PropertyRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	propertyID := RecordIdentity(in.SurveyNumber, in.Latitude, in.Longitude, in.RegisteredAt)

	var record domain.PropertyRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blacklisted domain.BlacklistedProperty
		if err := tx.Where("property_id = ?", propertyID).First(&blacklisted).Error; err == nil {
			return ErrIdentityBlacklisted
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var existing domain.PropertyRecord
		if err := tx.Where("property_id = ?", propertyID).First(&existing).Error; err == nil {
			return ErrDuplicateRecord
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var stake domain.StakeAccount
		if err := tx.Where("owner_id = ?", ownerID).First(&stake).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &vault.InsufficientStakeError{Required: in.CollateralAmount, Available: 0}
			}
			return err
		}
		if stake.Balance < in.CollateralAmount {
			return &vault.InsufficientStakeError{Required: in.CollateralAmount, Available: stake.Balance}
		}

		record = domain.PropertyRecord{
			PropertyID:       propertyID,
			OwnerID:          ownerID,
			SurveyNumber:     in.SurveyNumber,
			Location:         in.Location,
			Latitude:         in.Latitude,
			Longitude:        in.Longitude,
			AreaSqm:          in.AreaSqm,
			Valuation:        in.Valuation,
			DocumentRef:      in.DocumentRef,
			CollateralAmount: in.CollateralAmount,
			Status:           domain.RecordStatusPending,
			RegisteredAt:     in.RegisteredAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"valuation":  in.Valuation,
			"collateral": in.CollateralAmount,
		})
		return tx.Create(&domain.AssetEvent{
			EventType:  domain.EventRegistered,
			PropertyID: &record.PropertyID,
			ActorID:    &ownerID,
			EventData:  datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Decide resolves a pending record. Approve: verified + mint + release with
// bonus. Reject: rejected + release with fee. Callable only behind the
// reviewer permission; valid only from pending.
func (s *Service) Decide(ctx context.Context, reviewerID uuid.UUID, propertyID string, approve bool) (*DecisionResult, error) {
	result := &DecisionResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := pendingRecord(tx, propertyID, statusForDecision(approve))
		if err != nil {
			return err
		}

		// Mutate local state fully before invoking the vault/minter grants,
		// and hold the in-progress flag while they run.
		record.Deciding = true
		now := time.Now()
		if approve {
			record.Status = domain.RecordStatusVerified
			record.VerifiedAt = &now
		} else {
			record.Status = domain.RecordStatusRejected
		}
		if err := tx.Save(record).Error; err != nil {
			return err
		}

		if approve {
			asset, err := s.Minter.Mint(tx, record.OwnerID, record.Valuation, record.PropertyID)
			if err != nil {
				return err
			}
			record.AssetID = &asset.AssetID
			if err := s.Ledger.SetStatus(tx, asset.AssetID, domain.AssetStatusVerified); err != nil {
				return err
			}
			asset.Status = domain.AssetStatusVerified
			result.Asset = asset
		}

		release, err := s.Vault.Release(tx, record.OwnerID, record.PropertyID, record.CollateralAmount, approve)
		if err != nil {
			return err
		}
		result.Release = release

		record.Deciding = false
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		result.Record = record

		eventType := domain.EventRejected
		if approve {
			eventType = domain.EventVerified
		}
		eventData, _ := json.Marshal(release)
		return tx.Create(&domain.AssetEvent{
			EventType:  eventType,
			PropertyID: &record.PropertyID,
			AssetID:    record.AssetID,
			ActorID:    &reviewerID,
			EventData:  datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("property_id", propertyID).Bool("approved", approve).
		Str("status", result.Record.Status).Msg("Registry decision committed")
	return result, nil
}

// Slash forfeits a pending record's collateral and permanently blacklists the
// identity. Evidence is recorded, not validated.
func (s *Service) Slash(ctx context.Context, reviewerID uuid.UUID, propertyID, evidenceRef string) (*DecisionResult, error) {
	result := &DecisionResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := pendingRecord(tx, propertyID, domain.RecordStatusSlashed)
		if err != nil {
			return err
		}

		record.Deciding = true
		record.Status = domain.RecordStatusSlashed
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.BlacklistedProperty{
			PropertyID:  record.PropertyID,
			EvidenceRef: evidenceRef,
		}).Error; err != nil {
			return err
		}

		slash, err := s.Vault.Slash(tx, record.OwnerID, record.PropertyID, record.CollateralAmount)
		if err != nil {
			return err
		}
		result.Slash = slash

		record.Deciding = false
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		result.Record = record

		eventData, _ := json.Marshal(map[string]interface{}{
			"evidence_ref":   evidenceRef,
			"pool_share":     slash.PoolShare,
			"treasury_share": slash.TreasuryShare,
		})
		return tx.Create(&domain.AssetEvent{
			EventType:  domain.EventSlashed,
			PropertyID: &record.PropertyID,
			ActorID:    &reviewerID,
			EventData:  datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("property_id", propertyID).Msg("Record slashed and blacklisted")
	return result, nil
}

// ActivateTrading flips a verified record and its asset ledger to trading.
func (s *Service) ActivateTrading(ctx context.Context, actorID uuid.UUID, propertyID string) (*domain.PropertyRecord, error) {
	var record domain.PropertyRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&record).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRecordNotFound
			}
			return err
		}
		if !canTransition(record.Status, domain.RecordStatusTrading) {
			return &InvalidTransitionError{From: record.Status, To: domain.RecordStatusTrading}
		}
		if record.AssetID == nil {
			return ErrNotVerified
		}

		record.Status = domain.RecordStatusTrading
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		if err := s.Ledger.SetStatus(tx, *record.AssetID, domain.AssetStatusTrading); err != nil {
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{"asset_id": record.AssetID})
		return tx.Create(&domain.AssetEvent{
			EventType:  domain.EventTradingActivated,
			PropertyID: &record.PropertyID,
			AssetID:    record.AssetID,
			ActorID:    &actorID,
			EventData:  datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ViewRecord returns one record by identity.
func (s *Service) ViewRecord(ctx context.Context, propertyID string) (*domain.PropertyRecord, error) {
	var record domain.PropertyRecord
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ViewOwnerRecords returns all records registered by an owner.
func (s *Service) ViewOwnerRecords(ctx context.Context, ownerID uuid.UUID) ([]domain.PropertyRecord, error) {
	var records []domain.PropertyRecord
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("registered_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// pendingRecord loads a record and checks it can move to the target status;
// the in-progress flag refuses re-entry while a decision is mid-flight.
func pendingRecord(tx *gorm.DB, propertyID, target string) (*domain.PropertyRecord, error) {
	var record domain.PropertyRecord
	if err := tx.Where("property_id = ?", propertyID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if record.Deciding {
		return nil, ErrDecisionInProgress
	}
	if !canTransition(record.Status, target) {
		return nil, &InvalidTransitionError{From: record.Status, To: target}
	}
	return &record, nil
}

func statusForDecision(approve bool) string {
	if approve {
		return domain.RecordStatusVerified
	}
	return domain.RecordStatusRejected
}
