package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/http/handlers"
	"github.com/justcars/backend/internal/middleware"
	"github.com/justcars/backend/internal/rbac"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	escrowHandler *handlers.EscrowHandler,
	inspectionHandler *handlers.InspectionHandler,
	paymentHandler *handlers.PaymentHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Internal-Key",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Internal token issuance (guarded by shared key, not JWT)
	api.Post("/auth/token", authHandler.IssueToken)

	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Public, rate-limited
	api.Get("/fees/escrow", escrowHandler.QuoteFee)

	// Gateway callbacks land here without a session, so funding
	// confirmation stays public. The reference alone cannot move funds
	// anywhere but the escrow ledger.
	api.Post("/escrow/confirm-funding", escrowHandler.ConfirmFunding)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Payments
	protected.Get("/payments/banks", paymentHandler.ListBanks)
	protected.Post("/payments/verify-account", paymentHandler.VerifyAccountNumber)
	protected.Get("/payments/:reference", paymentHandler.GetPayment)

	// Escrow (buyer flow)
	protected.Post("/escrow", middleware.RequirePermission(rbac.PermInitiateEscrow), escrowHandler.Initiate)
	protected.Get("/escrow", escrowHandler.ListTransactions)
	protected.Get("/escrow/:id", escrowHandler.GetTransaction)
	protected.Get("/escrow/:id/events", escrowHandler.GetTimeline)
	protected.Get("/escrow/:id/payments", escrowHandler.GetPayments)
	protected.Post("/escrow/:id/payment-method", middleware.RequirePermission(rbac.PermFundEscrow), escrowHandler.SelectPaymentMethod)
	protected.Post("/escrow/:id/request-inspection", middleware.RequirePermission(rbac.PermRequestInspection), escrowHandler.RequestInspection)
	protected.Post("/escrow/:id/approve", middleware.RequirePermission(rbac.PermApprovePurchase), escrowHandler.Approve)
	protected.Post("/escrow/:id/reject", middleware.RequirePermission(rbac.PermRejectPurchase), escrowHandler.Reject)
	protected.Post("/escrow/:id/cancel", middleware.RequirePermission(rbac.PermCancelEscrow), escrowHandler.Cancel)

	// Admin
	admin := protected.Group("/admin", middleware.AdminMiddleware(cfg))
	admin.Post("/escrow/:id/release", adminHandler.Release)
	admin.Post("/escrow/:id/refund", adminHandler.Refund)
	admin.Post("/escrow/:id/dispute", adminHandler.Dispute)
	admin.Post("/escrow/:id/resolve", adminHandler.ResolveDispute)
	admin.Post("/escrow/:id/retry-transfer", adminHandler.RetryTransfer)

	// Inspections (admin-operated workflow)
	inspections := protected.Group("/inspections", middleware.AdminMiddleware(cfg))
	inspections.Get("", inspectionHandler.List)
	inspections.Get("/:id", inspectionHandler.Get)
	inspections.Post("/:id/assign", inspectionHandler.Assign)
	inspections.Post("/:id/start", inspectionHandler.Start)
	inspections.Post("/:id/complete", inspectionHandler.Complete)
	inspections.Post("/:id/cancel", inspectionHandler.Cancel)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
