package ledger

import (
	"errors"

	"landtoken-backend/internal/domain"
	"landtoken-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Transfer POST /api/v1/assets/transfer — moves the caller's own balance.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var body struct {
		AssetID string             `json:"asset_id"`
		ToID    string             `json:"to_id"`
		Amount  domain.TokenAmount `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	assetID, err := uuid.Parse(body.AssetID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	toID, err := uuid.Parse(body.ToID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for to_id", 400, nil)
	}
	if body.Amount.Sign() <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	if err := h.Service.Transfer(c.Context(), assetID, actorID, toID, body.Amount); err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Transfer complete", fiber.Map{
		"asset_id": assetID,
		"from":     actorID,
		"to":       toID,
		"amount":   body.Amount,
	}, nil)
}

// Burn POST /api/v1/assets/burn — destroys part of the caller's own balance.
func (h *Handlers) Burn(c *fiber.Ctx) error {
	var body struct {
		AssetID string             `json:"asset_id"`
		Amount  domain.TokenAmount `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	assetID, err := uuid.Parse(body.AssetID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	if body.Amount.Sign() <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	if err := h.Service.Burn(c.Context(), assetID, actorID, body.Amount); err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Tokens burned", fiber.Map{
		"asset_id": assetID,
		"from":     actorID,
		"amount":   body.Amount,
	}, nil)
}

// SetLockExempt POST /api/v1/assets/set-lock-exempt
func (h *Handlers) SetLockExempt(c *fiber.Ctx) error {
	var body struct {
		AssetID  string `json:"asset_id"`
		HolderID string `json:"holder_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	assetID, err := uuid.Parse(body.AssetID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	holderID, err := uuid.Parse(body.HolderID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for holder_id", 400, nil)
	}

	if err := h.Service.SetLockExempt(c.Context(), assetID, holderID, actorID); err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Lock exemption set", fiber.Map{
		"asset_id":  assetID,
		"holder_id": holderID,
	}, nil)
}

// ViewAsset GET /api/v1/assets/view-asset/:asset_id
func (h *Handlers) ViewAsset(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	asset, err := h.Service.AssetByID(c.Context(), assetID)
	if err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Asset", asset, nil)
}

// ViewBalances GET /api/v1/assets/balances/:asset_id
func (h *Handlers) ViewBalances(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	balances, err := h.Service.Balances(c.Context(), assetID)
	if err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Balances", balances, nil)
}

// ViewBalance GET /api/v1/assets/balance/:asset_id — the caller's own balance.
func (h *Handlers) ViewBalance(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	balance, err := h.Service.BalanceOf(c.Context(), assetID, actorID)
	if err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "Balance", fiber.Map{
		"asset_id":  assetID,
		"holder_id": actorID,
		"balance":   balance,
	}, nil)
}

func ledgerError(c *fiber.Ctx, err error) error {
	var insBal *InsufficientBalanceError
	var lock *OwnerLockError
	switch {
	case errors.Is(err, ErrAssetNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSelfTransfer):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrAssetNotActive):
		return response.Error(c, err.Error(), 403, nil)
	case errors.As(err, &insBal):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"requested": insBal.Requested, "available": insBal.Available,
		})
	case errors.As(err, &lock):
		return response.Error(c, err.Error(), 403, fiber.Map{
			"floor":        lock.Floor,
			"balance":      lock.Balance,
			"locked_until": lock.LockedUntil,
		})
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
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
