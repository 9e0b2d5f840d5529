package transactions

import (
	"context"

	"landtoken-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// ViewVaultEntries returns the vault journal for one owner, newest first.
func (s *Service) ViewVaultEntries(ctx context.Context, ownerID uuid.UUID) ([]domain.VaultEntry, error) {
	var entries []domain.VaultEntry
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ViewAssetEvents returns the audit journal for one asset, oldest first.
func (s *Service) ViewAssetEvents(ctx context.Context, assetID uuid.UUID) ([]domain.AssetEvent, error) {
	var events []domain.AssetEvent
	if err := s.DB.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ViewPropertyEvents returns the audit journal for one property identity,
// oldest first (covers the pre-mint registration/decision events too).
func (s *Service) ViewPropertyEvents(ctx context.Context, propertyID string) ([]domain.AssetEvent, error) {
	var events []domain.AssetEvent
	if err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
