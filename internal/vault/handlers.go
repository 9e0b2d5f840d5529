package vault

import (
	"errors"

	"landtoken-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Deposit POST /api/v1/vault/deposit
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	account, err := h.Service.Deposit(c.Context(), actorID, body.Amount)
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Stake deposited", fiber.Map{
		"owner_id":     account.OwnerID,
		"balance":      account.Balance,
		"deposited_at": account.DepositedAt,
	}, nil)
}

// FundBonusPool POST /api/v1/vault/fund-bonus-pool
func (h *Handlers) FundBonusPool(c *fiber.Ctx) error {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	pool, err := h.Service.FundBonusPool(c.Context(), actorID, body.Amount)
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Bonus pool funded", pool, nil)
}

// EmergencyWithdraw POST /api/v1/vault/emergency-withdraw
func (h *Handlers) EmergencyWithdraw(c *fiber.Ctx) error {
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}

	payout, err := h.Service.EmergencyWithdraw(c.Context(), actorID)
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Stake withdrawn", fiber.Map{"payout": payout}, nil)
}

// EmergencyWithdrawBonusPool POST /api/v1/vault/emergency-withdraw-bonus-pool
func (h *Handlers) EmergencyWithdrawBonusPool(c *fiber.Ctx) error {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	pool, err := h.Service.EmergencyWithdrawBonusPool(c.Context(), actorID, body.Amount)
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Bonus pool withdrawn", pool, nil)
}

// ViewStake GET /api/v1/vault/stake
func (h *Handlers) ViewStake(c *fiber.Ctx) error {
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	account, err := h.Service.StakeOf(c.Context(), actorID)
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Stake account", account, nil)
}

// ViewBonusPool GET /api/v1/vault/bonus-pool
func (h *Handlers) ViewBonusPool(c *fiber.Ctx) error {
	pool, err := h.Service.BonusPoolStatus(c.Context())
	if err != nil {
		return vaultError(c, err)
	}
	return response.Success(c, "Bonus pool", pool, nil)
}

// vaultError maps service errors to HTTP status codes.
func vaultError(c *fiber.Ctx, err error) error {
	var insStake *InsufficientStakeError
	var insPool *InsufficientBonusPoolError
	var window *EmergencyWindowError
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrStakeNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrNothingToWithdraw):
		return response.Error(c, err.Error(), 400, nil)
	case errors.As(err, &insStake):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"required": insStake.Required, "available": insStake.Available,
		})
	case errors.As(err, &insPool):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"required": insPool.Required, "available": insPool.Available,
		})
	case errors.As(err, &window):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"available_at": window.AvailableAt,
		})
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}

// getActorID reads the session user id from Locals.
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
