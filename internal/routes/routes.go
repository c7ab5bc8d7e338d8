// Package routes wires repositories, services and handlers onto the
// fiber app.
package routes

import (
	"time"

	"refpay/internal/config"
	"refpay/internal/handlers"
	"refpay/internal/middleware"
	"refpay/internal/repositories"
	"refpay/internal/services/identity"
	"refpay/internal/services/ledger"
	"refpay/internal/services/referral"
	"refpay/internal/services/upi"
	"refpay/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	userRepo := repositories.NewUserRepository(repositories.DB)
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	txRepo := repositories.NewTransactionRepository(repositories.DB)
	upiRepo := repositories.NewUpiRepository(repositories.DB)
	referralRepo := repositories.NewReferralRepository(repositories.DB)
	withdrawalRepo := repositories.NewWithdrawalRepository(repositories.DB)

	referralService := referral.NewService(userRepo, referralRepo, repositories.CacheService, referral.Config{
		LinkBase:              config.GetEnv("REFERRAL_LINK_BASE", "https://t.me/refpay_bot?start="),
		CommissionPerReferral: config.GetFloatEnv("REFERRAL_COMMISSION", 10),
	})
	identityService := identity.NewService(userRepo, referralService)
	ledgerService := ledger.NewService(walletRepo, txRepo, repositories.CacheService)
	upiService := upi.NewService(upiRepo)
	withdrawalService := withdrawal.NewService(withdrawalRepo)

	userHandler := handlers.NewUserHandler(identityService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	upiHandler := handlers.NewUpiHandler(upiService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	referralHandler := handlers.NewReferralHandler(referralService)
	botHandler := handlers.NewBotHandler(identityService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Client surface
	api.Post("/user", userHandler.ResolveUser)
	api.Get("/wallet/:chatId", walletHandler.GetWallet)
	api.Get("/wallet/:chatId/transactions", walletHandler.ListTransactions)
	api.Post("/upi", upiHandler.UpsertUpi)
	api.Post("/withdraw", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	}), withdrawalHandler.InitiateWithdrawal)
	api.Get("/withdrawals/:chatId", withdrawalHandler.ListWithdrawals)
	api.Get("/referral/:chatId", referralHandler.GetSummary)
	api.Get("/referral/:chatId/users", referralHandler.ListReferredUsers)

	// Privileged bot surface: the only path that may set referral linkage.
	bot := api.Group("/bot", middleware.BotAuth(config.GetEnv("BOT_API_KEY", "")))
	bot.Post("/user", botHandler.CreateUser)
}
