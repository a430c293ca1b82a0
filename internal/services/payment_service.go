package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService owns the execution side of money movement: running
// transfer instructions against a gateway and answering bank directory
// queries. Status decisions live in EscrowService.
type PaymentService struct {
	payments  PaymentStore
	gateways  PaymentGateways
	publisher events.Publisher
	log       *zap.Logger
}

func NewPaymentService(payments PaymentStore, gateways PaymentGateways, publisher events.Publisher, log *zap.Logger) *PaymentService {
	return &PaymentService{
		payments:  payments,
		gateways:  gateways,
		publisher: publisher,
		log:       log,
	}
}

// ExecuteTransfer runs a payout instruction. The ledger row for the
// reference already exists; this finalizes it. A failure leaves the row
// pending so the transfer can be retried.
func (s *PaymentService) ExecuteTransfer(ctx context.Context, instr *TransferInstruction) (*gateway.TransferResult, error) {
	result, err := s.gateways.InitiateTransfer(ctx, instr.Provider, instr.Request)
	if err != nil {
		s.log.Error("transfer failed",
			zap.String("reference", instr.Request.Reference),
			zap.String("provider", instr.Provider),
			zap.Error(err))
		return nil, err
	}

	_ = s.payments.FinalizeStatus(ctx, instr.Request.Reference, models.PaymentStatusCompleted, &result.TransferID)

	_ = s.publisher.Publish(ctx, events.ChannelPayments, events.Event{
		Type: events.EventTransferInitiated,
		Payload: map[string]any{
			"reference":   instr.Request.Reference,
			"transfer_id": result.TransferID,
			"type":        instr.PaymentType,
		},
	})

	return result, nil
}

// RecordPlatformCharge opens a pending ledger row for a non-escrow
// platform charge (dealer badge, featured listing, buyer verification),
// priced from the platform tables. The purchase flows confirm these rows
// through the same gateway verification path as escrow funding.
func (s *PaymentService) RecordPlatformCharge(ctx context.Context, paymentType, tier string, payerID uuid.UUID, provider string, amount decimal.Decimal, relatedEntityID *uuid.UUID) (*models.PaymentTransaction, error) {
	priced, err := models.PlatformChargeAmount(paymentType, tier, amount)
	if err != nil {
		return nil, err
	}

	if provider == "" {
		provider = s.gateways.DefaultProvider()
	}

	p := &models.PaymentTransaction{
		Type:            paymentType,
		PayerID:         payerID,
		Amount:          priced,
		Gateway:         provider,
		Reference:       gateway.GenerateReference("CHG"),
		Status:          models.PaymentStatusPending,
		RelatedEntityID: relatedEntityID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, reference string) (*models.PaymentTransaction, error) {
	return s.payments.GetByReference(ctx, reference)
}

func (s *PaymentService) ListBanks(ctx context.Context, provider string) ([]gateway.Bank, error) {
	return s.gateways.ListBanks(ctx, provider)
}

func (s *PaymentService) VerifyAccountNumber(ctx context.Context, provider, accountNumber, bankCode string) (*gateway.AccountDetails, error) {
	return s.gateways.VerifyAccountNumber(ctx, provider, accountNumber, bankCode)
}
