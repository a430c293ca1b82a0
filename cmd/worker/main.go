package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/db"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/models"
	"github.com/justcars/backend/internal/repositories"
	"github.com/justcars/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	escrowRepo := repositories.NewEscrowRepo(pool)
	inspectionRepo := repositories.NewInspectionRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	paystack := gateway.NewPaystack(gateway.PaystackConfig{
		SecretKey: cfg.PaystackSecretKey,
		PublicKey: cfg.PaystackPublicKey,
	}, log)
	flutterwave := gateway.NewFlutterwave(gateway.FlutterwaveConfig{
		SecretKey: cfg.FlutterwaveSecretKey,
		PublicKey: cfg.FlutterwavePublicKey,
	}, log)
	gateways := gateway.NewDispatcher(cfg.DefaultGateway, paystack, flutterwave)

	catalog := services.NewCatalogClient(cfg.CatalogBaseURL, log)
	escrowService := services.NewEscrowService(escrowRepo, inspectionRepo, paymentRepo, auditRepo, catalog, gateways, publisher, cfg, log)
	paymentService := services.NewPaymentService(paymentRepo, gateways, publisher, log)

	log.Info("worker started", zap.Duration("reconcile_interval", cfg.ReconcileInterval))

	reconcileTicker := time.NewTicker(cfg.ReconcileInterval)
	payoutTicker := time.NewTicker(2 * cfg.ReconcileInterval)
	defer reconcileTicker.Stop()
	defer payoutTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reconcileTicker.C:
			runFundingReconcile(ctx, escrowService, log)
		case <-payoutTicker.C:
			runPayoutRetries(ctx, paymentRepo, escrowService, paymentService, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runFundingReconcile(ctx context.Context, escrowService *services.EscrowService, log *zap.Logger) {
	confirmed, err := escrowService.ReconcileFunding(ctx)
	if err != nil {
		log.Error("funding reconcile failed", zap.Error(err))
		return
	}
	if confirmed > 0 {
		log.Info("reconciled funding payments", zap.Int("confirmed", confirmed))
	}
}

// runPayoutRetries re-drives release and refund transfers whose ledger
// rows are still pending. uuid.Nil marks the system as the audit actor.
func runPayoutRetries(ctx context.Context, paymentRepo *repositories.PaymentRepo, escrowService *services.EscrowService, paymentService *services.PaymentService, log *zap.Logger) {
	for _, paymentType := range []string{models.PaymentTypeEscrowRelease, models.PaymentTypeEscrowRefund} {
		pending, err := paymentRepo.ListPending(ctx, paymentType, 50)
		if err != nil {
			log.Error("failed to list pending payouts", zap.String("type", paymentType), zap.Error(err))
			continue
		}

		for _, p := range pending {
			if p.RelatedEntityID == nil {
				continue
			}

			instr, err := escrowService.RetryTransfer(ctx, *p.RelatedEntityID, uuid.Nil)
			if err != nil {
				log.Warn("payout not retryable",
					zap.String("reference", p.Reference), zap.Error(err))
				continue
			}

			if _, err := paymentService.ExecuteTransfer(ctx, instr); err != nil {
				log.Warn("payout retry failed",
					zap.String("reference", p.Reference), zap.Error(err))
				continue
			}

			log.Info("payout transfer completed on retry", zap.String("reference", p.Reference))
		}
	}
}
