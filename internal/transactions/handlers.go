package transactions

import (
	"landtoken-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// VaultEntries GET /api/v1/transactions/vault-entries — the caller's journal.
func (h *Handlers) VaultEntries(c *fiber.Ctx) error {
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	entries, err := h.Service.ViewVaultEntries(c.Context(), actorID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Vault entries", entries, nil)
}

// AssetEvents GET /api/v1/transactions/asset-events/:asset_id
func (h *Handlers) AssetEvents(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	events, err := h.Service.ViewAssetEvents(c.Context(), assetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Asset events", events, nil)
}

// PropertyEvents GET /api/v1/transactions/property-events/:property_id
func (h *Handlers) PropertyEvents(c *fiber.Ctx) error {
	propertyID := c.Params("property_id")
	if propertyID == "" {
		return response.Error(c, "property_id is required", 400, nil)
	}
	events, err := h.Service.ViewPropertyEvents(c.Context(), propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Property events", events, nil)
}

func getActorID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
