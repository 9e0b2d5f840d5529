package registry

import (
	"errors"

	"landtoken-backend/internal/pkg/response"
	"landtoken-backend/internal/vault"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// RegisterProperty POST /api/v1/registry/register-property
func (h *Handlers) RegisterProperty(c *fiber.Ctx) error {
	var body RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}

	record, err := h.Service.Register(c.Context(), actorID, body)
	if err != nil {
		return registryError(c, err)
	}
	return response.SuccessCreated(c, "Property registered", record, nil)
}

// Decide POST /api/v1/registry/decide
func (h *Handlers) Decide(c *fiber.Ctx) error {
	var body struct {
		PropertyID string `json:"property_id"`
		Approve    *bool  `json:"approve"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PropertyID == "" || body.Approve == nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}

	result, err := h.Service.Decide(c.Context(), actorID, body.PropertyID, *body.Approve)
	if err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Decision recorded", result, nil)
}

// Slash POST /api/v1/registry/slash
func (h *Handlers) Slash(c *fiber.Ctx) error {
	var body struct {
		PropertyID  string `json:"property_id"`
		EvidenceRef string `json:"evidence_ref"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PropertyID == "" || body.EvidenceRef == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}

	result, err := h.Service.Slash(c.Context(), actorID, body.PropertyID, body.EvidenceRef)
	if err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Record slashed", result, nil)
}

// ActivateTrading POST /api/v1/registry/activate-trading
func (h *Handlers) ActivateTrading(c *fiber.Ctx) error {
	var body struct {
		PropertyID string `json:"property_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PropertyID == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}

	record, err := h.Service.ActivateTrading(c.Context(), actorID, body.PropertyID)
	if err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Trading activated", record, nil)
}

// ViewRecord GET /api/v1/registry/view-record/:property_id
func (h *Handlers) ViewRecord(c *fiber.Ctx) error {
	propertyID := c.Params("property_id")
	if propertyID == "" {
		return response.Error(c, "property_id is required", 400, nil)
	}
	record, err := h.Service.ViewRecord(c.Context(), propertyID)
	if err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Property record", record, nil)
}

// ViewOwnerRecords GET /api/v1/registry/view-owner-records
func (h *Handlers) ViewOwnerRecords(c *fiber.Ctx) error {
	actorID, ok := getActorID(c)
	if !ok {
		return response.Error(c, "User not authenticated", 401, nil)
	}
	records, err := h.Service.ViewOwnerRecords(c.Context(), actorID)
	if err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Owner records", records, nil)
}

func registryError(c *fiber.Ctx, err error) error {
	var transition *InvalidTransitionError
	var shortfall *CollateralShortfallError
	var insStake *vault.InsufficientStakeError
	var insPool *vault.InsufficientBonusPoolError
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrDuplicateRecord), errors.Is(err, ErrDecisionInProgress):
		return response.Error(c, err.Error(), 409, nil)
	case errors.Is(err, ErrIdentityBlacklisted):
		return response.Error(c, err.Error(), 403, nil)
	case errors.Is(err, ErrInvalidSurveyNumber), errors.Is(err, ErrInvalidLocation),
		errors.Is(err, ErrInvalidDocumentRef), errors.Is(err, ErrInvalidCoordinates),
		errors.Is(err, ErrInvalidArea), errors.Is(err, ErrInvalidValuation),
		errors.Is(err, ErrInvalidRegisteredAt):
		return response.Error(c, err.Error(), 400, nil)
	case errors.As(err, &transition):
		return response.Error(c, err.Error(), 409, fiber.Map{
			"from": transition.From, "to": transition.To,
		})
	case errors.As(err, &shortfall):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"required": shortfall.Required, "pledged": shortfall.Pledged,
		})
	case errors.As(err, &insStake):
		return response.Error(c, err.Error(), 400, fiber.Map{
			"required": insStake.Required, "available": insStake.Available,
		})
	case errors.As(err, &insPool):
		return response.Error(c, err.Error(), 409, fiber.Map{
			"required": insPool.Required, "available": insPool.Available,
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
