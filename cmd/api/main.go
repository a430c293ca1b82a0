package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/db"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/gateway"
	apphttp "github.com/justcars/backend/internal/http"
	"github.com/justcars/backend/internal/http/handlers"
	"github.com/justcars/backend/internal/repositories"
	"github.com/justcars/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	escrowRepo := repositories.NewEscrowRepo(pool)
	inspectionRepo := repositories.NewInspectionRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Payment gateways
	paystack := gateway.NewPaystack(gateway.PaystackConfig{
		SecretKey: cfg.PaystackSecretKey,
		PublicKey: cfg.PaystackPublicKey,
	}, log)
	flutterwave := gateway.NewFlutterwave(gateway.FlutterwaveConfig{
		SecretKey: cfg.FlutterwaveSecretKey,
		PublicKey: cfg.FlutterwavePublicKey,
	}, log)
	gateways := gateway.NewDispatcher(cfg.DefaultGateway, paystack, flutterwave)

	// Services
	catalog := services.NewCatalogClient(cfg.CatalogBaseURL, log)
	escrowService := services.NewEscrowService(escrowRepo, inspectionRepo, paymentRepo, auditRepo, catalog, gateways, publisher, cfg, log)
	inspectionService := services.NewInspectionService(inspectionRepo, escrowRepo, auditRepo, publisher, cfg, log)
	paymentService := services.NewPaymentService(paymentRepo, gateways, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	escrowHandler := handlers.NewEscrowHandler(escrowService, log)
	inspectionHandler := handlers.NewInspectionHandler(inspectionService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)
	adminHandler := handlers.NewAdminHandler(escrowService, paymentService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, escrowHandler, inspectionHandler, paymentHandler, adminHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
