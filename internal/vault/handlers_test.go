package vault

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"landtoken-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVaultHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.StakeAccount{}, &domain.BonusPool{}, &domain.TreasuryAccount{}, &domain.VaultEntry{},
	))
	return &Handlers{Service: &Service{DB: db}}, db
}

func vaultApp(h *Handlers, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user", map[string]interface{}{"user_id": userID})
		}
		return c.Next()
	})
	app.Post("/deposit", h.Deposit)
	app.Post("/fund-bonus-pool", h.FundBonusPool)
	app.Post("/emergency-withdraw", h.EmergencyWithdraw)
	app.Get("/stake", h.ViewStake)
	app.Get("/bonus-pool", h.ViewBonusPool)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) (*fiber.App, map[string]interface{}, int) {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	return app, out, resp.StatusCode
}

func TestDepositHandler_Success(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	app := vaultApp(h, uuid.New().String())

	_, out, code := postJSON(t, app, "/deposit", map[string]interface{}{"amount": 250.5})
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", out["status"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, 250.5, data["balance"])
}

func TestDepositHandler_Unauthenticated(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	app := vaultApp(h, "")

	_, _, code := postJSON(t, app, "/deposit", map[string]interface{}{"amount": 100})
	assert.Equal(t, 401, code)
}

func TestDepositHandler_InvalidAmount(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	app := vaultApp(h, uuid.New().String())

	_, _, code := postJSON(t, app, "/deposit", map[string]interface{}{"amount": -5})
	assert.Equal(t, 400, code)
}

func TestEmergencyWithdrawHandler_WindowClosed(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	userID := uuid.New().String()
	app := vaultApp(h, userID)

	_, _, code := postJSON(t, app, "/deposit", map[string]interface{}{"amount": 100})
	require.Equal(t, 200, code)

	_, out, code := postJSON(t, app, "/emergency-withdraw", map[string]interface{}{})
	assert.Equal(t, 400, code)
	errObj := out["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Contains(t, details, "available_at")
}

func TestViewStakeHandler(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	userID := uuid.New().String()
	app := vaultApp(h, userID)

	// no account yet
	resp, err := app.Test(httptest.NewRequest("GET", "/stake", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	_, _, code := postJSON(t, app, "/deposit", map[string]interface{}{"amount": 75})
	require.Equal(t, 200, code)

	resp, err = app.Test(httptest.NewRequest("GET", "/stake", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, 75.0, data["balance"])
}

func TestViewBonusPoolHandler(t *testing.T) {
	h, _ := setupVaultHandlers(t)
	app := vaultApp(h, uuid.New().String())

	_, _, code := postJSON(t, app, "/fund-bonus-pool", map[string]interface{}{"amount": 300})
	require.Equal(t, 200, code)

	resp, err := app.Test(httptest.NewRequest("GET", "/bonus-pool", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, 300.0, data["available"])
	assert.Equal(t, 0.0, data["total_paid"])
}
