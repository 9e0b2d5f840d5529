package app

import (
	"net/http"

	"landtoken-backend/internal/auth"
	"landtoken-backend/internal/config"
	"landtoken-backend/internal/constants"
	"landtoken-backend/internal/database"
	"landtoken-backend/internal/health"
	"landtoken-backend/internal/ledger"
	"landtoken-backend/internal/middleware"
	"landtoken-backend/internal/minter"
	"landtoken-backend/internal/registry"
	"landtoken-backend/internal/transactions"
	"landtoken-backend/internal/vault"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. The open DB and Redis handles are returned so the entry
// point can verify connectivity before serving.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); need Redis client for health marker too
	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Response formatter (inject helpers)
	app.Use(middleware.ResponseFormatter())

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	app.Use(func(c *fiber.Ctx) error {
		user := c.Locals("user")
		if user == nil {
			c.Locals("user", nil)
		}
		return c.Next()
	})

	// --- Routes (no auth) ---
	// Health module (GET /, GET /reset, GET /health/json, GET /health/errors)
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             nil, // wired below once the DB is open
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", healthHandlers.Dashboard)
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
	}
	// db may be nil if DATABASE_URL not set (e.g. tests); Login will return 500
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Wire DB into health checks now that it is open
	if db != nil {
		if sqlDB, errPing := db.DB(); errPing == nil {
			healthHandlers.DB = sqlDB
		}
	}

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		platformID, _ := uuid.Parse(cfg.PlatformAccountID)
		custodyID, _ := uuid.Parse(cfg.CustodyAccountID)

		vaultService := &vault.Service{DB: db}
		minterService := &minter.Service{
			UnitPrice:         cfg.TokenUnitPrice,
			PlatformAccountID: platformID,
			CustodyAccountID:  custodyID,
		}
		ledgerService := &ledger.Service{DB: db}
		registryService := &registry.Service{
			DB:     db,
			Vault:  vaultService.Grant(),
			Minter: minterService.Grant(),
			Ledger: ledgerService.Grant(),
		}

		// Vault module
		vaultHandlers := &vault.Handlers{Service: vaultService}
		vaultGroup := app.Group("/api/v1/vault", middleware.RequireAuth())
		vaultGroup.Post("/deposit", middleware.AuthorizePermission(constants.DepositStake), vaultHandlers.Deposit)
		vaultGroup.Post("/fund-bonus-pool", middleware.AuthorizePermission(constants.FundBonusPool), vaultHandlers.FundBonusPool)
		vaultGroup.Post("/emergency-withdraw", middleware.AuthorizePermission(constants.DepositStake), vaultHandlers.EmergencyWithdraw)
		vaultGroup.Post("/emergency-withdraw-bonus-pool", middleware.AuthorizePermission(constants.TreasuryWithdraw), vaultHandlers.EmergencyWithdrawBonusPool)
		vaultGroup.Get("/stake", middleware.AuthorizePermission(constants.ViewData), vaultHandlers.ViewStake)
		vaultGroup.Get("/bonus-pool", middleware.AuthorizePermission(constants.ViewData), vaultHandlers.ViewBonusPool)

		// Registry module
		registryHandlers := &registry.Handlers{Service: registryService}
		registryGroup := app.Group("/api/v1/registry", middleware.RequireAuth())
		registryGroup.Post("/register-property", middleware.AuthorizePermission(constants.RegisterProperty), registryHandlers.RegisterProperty)
		registryGroup.Post("/decide", middleware.AuthorizePermission(constants.ReviewProperty), registryHandlers.Decide)
		registryGroup.Post("/slash", middleware.AuthorizePermission(constants.SlashProperty), registryHandlers.Slash)
		registryGroup.Post("/activate-trading", middleware.AuthorizePermission(constants.ActivateTrading), registryHandlers.ActivateTrading)
		registryGroup.Get("/view-record/:property_id", middleware.AuthorizePermission(constants.ViewData), registryHandlers.ViewRecord)
		registryGroup.Get("/view-owner-records", middleware.AuthorizePermission(constants.ViewData), registryHandlers.ViewOwnerRecords)

		// Asset ledger module
		ledgerHandlers := &ledger.Handlers{Service: ledgerService}
		assetGroup := app.Group("/api/v1/assets", middleware.RequireAuth())
		assetGroup.Post("/transfer", middleware.AuthorizePermission(constants.TransferTokens), ledgerHandlers.Transfer)
		assetGroup.Post("/burn", middleware.AuthorizePermission(constants.BurnTokens), ledgerHandlers.Burn)
		assetGroup.Post("/set-lock-exempt", middleware.AuthorizePermission(constants.ManageExemptions), ledgerHandlers.SetLockExempt)
		assetGroup.Get("/view-asset/:asset_id", middleware.AuthorizePermission(constants.ViewData), ledgerHandlers.ViewAsset)
		assetGroup.Get("/balances/:asset_id", middleware.AuthorizePermission(constants.ViewData), ledgerHandlers.ViewBalances)
		assetGroup.Get("/balance/:asset_id", middleware.AuthorizePermission(constants.ViewData), ledgerHandlers.ViewBalance)

		// Transactions module (journals)
		txService := &transactions.Service{DB: db}
		txHandlers := &transactions.Handlers{Service: txService}
		txGroup := app.Group("/api/v1/transactions", middleware.RequireAuth())
		txGroup.Get("/vault-entries", middleware.AuthorizePermission(constants.ViewData), txHandlers.VaultEntries)
		txGroup.Get("/asset-events/:asset_id", middleware.AuthorizePermission(constants.ViewData), txHandlers.AssetEvents)
		txGroup.Get("/property-events/:property_id", middleware.AuthorizePermission(constants.ViewData), txHandlers.PropertyEvents)
	}

	return app, db, rdb, nil
}

// Handler returns an http.Handler for serverless platforms (Fiber app as net/http handler).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
