package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/models"
	"github.com/justcars/backend/internal/money"
	"github.com/justcars/backend/internal/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferInstruction describes an outbound transfer the escrow decision
// produced. Executing it is a separate, retryable step: a gateway outage
// during payout must not roll back the released/refunded status.
type TransferInstruction struct {
	PaymentType string // escrow_release or escrow_refund
	Provider    string
	Request     gateway.TransferRequest
}

type EscrowService struct {
	escrows     EscrowStore
	inspections InspectionStore
	payments    PaymentStore
	audit       AuditStore
	catalog     Catalog
	gateways    PaymentGateways
	publisher   events.Publisher
	cfg         *config.Config
	log         *zap.Logger
}

func NewEscrowService(
	escrows EscrowStore,
	inspections InspectionStore,
	payments PaymentStore,
	audit AuditStore,
	catalog Catalog,
	gateways PaymentGateways,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *EscrowService {
	return &EscrowService{
		escrows:     escrows,
		inspections: inspections,
		payments:    payments,
		audit:       audit,
		catalog:     catalog,
		gateways:    gateways,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
}

// transition validates a status change, applies it through the guarded
// store update, then records audit and event. apply performs the concrete
// conditional update for the target status.
func (s *EscrowService) transition(ctx context.Context, e *models.EscrowTransaction, to string, actorID *uuid.UUID, actorType string, apply func() error) error {
	if models.IsTerminalEscrowStatus(e.Status) {
		return fmt.Errorf("%w: %s", ErrTerminalState, e.Status)
	}
	if !models.IsValidEscrowTransition(e.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, e.Status, to)
	}

	oldStatus := e.Status
	if err := apply(); err != nil {
		return err
	}
	e.Status = to

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("escrow_status_%s_to_%s", oldStatus, to),
		EntityType:  "escrow_transaction",
		EntityID:    &e.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": to},
	})

	_ = s.publisher.Publish(ctx, events.ChannelEscrow, events.Event{
		Type: events.EventEscrowStatusChanged,
		Payload: map[string]any{
			"escrow_id":  e.ID.String(),
			"old_status": oldStatus,
			"new_status": to,
		},
	})

	return nil
}

// Initiate starts an escrow purchase for a car. If the buyer already has
// an active transaction for the same car, that transaction is returned
// instead of creating a duplicate.
func (s *EscrowService) Initiate(ctx context.Context, buyerID, carID uuid.UUID, wantsInspection bool) (*models.EscrowTransaction, error) {
	if existing, err := s.escrows.GetActiveByBuyerAndCar(ctx, buyerID, carID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	buyer, err := s.catalog.GetBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if !buyer.Verified {
		return nil, ErrBuyerNotVerified
	}

	car, err := s.catalog.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.Status != "available" {
		return nil, ErrCarUnavailable
	}

	breakdown, err := money.EscrowBreakdown(car.Price)
	if err != nil {
		return nil, err
	}

	e := &models.EscrowTransaction{
		BuyerID:         buyerID,
		DealerID:        car.DealerID,
		CarID:           carID,
		CarPrice:        breakdown.CarPrice,
		EscrowFee:       breakdown.EscrowFee,
		TotalAmount:     breakdown.Total,
		Status:          models.EscrowStatusInitiated,
		WantsInspection: wantsInspection,
	}
	created, err := s.escrows.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	// Create returns the already-existing row on a duplicate-active race.
	if created.ID != e.ID {
		return created, nil
	}

	s.catalog.MarkCarPendingSale(ctx, carID)

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &buyerID,
		ActorType:   "buyer",
		Action:      "escrow_initiated",
		EntityType:  "escrow_transaction",
		EntityID:    &created.ID,
		Meta: map[string]any{
			"car_id":           carID.String(),
			"total_amount":     breakdown.TotalStr,
			"wants_inspection": wantsInspection,
		},
	})

	return created, nil
}

// QuoteFee prices an escrow purchase without creating anything.
func (s *EscrowService) QuoteFee(price decimal.Decimal) (money.Breakdown, error) {
	return money.EscrowBreakdown(price)
}

func (s *EscrowService) GetTransaction(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	return s.escrows.GetByID(ctx, id)
}

func (s *EscrowService) ListTransactions(ctx context.Context, f repositories.EscrowFilter) ([]models.EscrowTransaction, error) {
	return s.escrows.List(ctx, f)
}

// GetTimeline returns the audit trail of one transaction, newest first.
func (s *EscrowService) GetTimeline(ctx context.Context, id uuid.UUID) ([]models.AuditLog, error) {
	return s.audit.ListByEntity(ctx, "escrow_transaction", id, 100, 0)
}

func (s *EscrowService) GetPayments(ctx context.Context, id uuid.UUID) ([]models.PaymentTransaction, error) {
	return s.payments.ListByEntity(ctx, id, 100, 0)
}

// SelectPaymentMethod locks the funding rail for an initiated transaction.
// Online funding returns a hosted checkout; bank transfer provisions a
// dedicated virtual account.
func (s *EscrowService) SelectPaymentMethod(ctx context.Context, id, buyerID uuid.UUID, method string) (*models.EscrowTransaction, *gateway.InitializeResult, error) {
	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.BuyerID != buyerID {
		return nil, nil, ErrNotTransactionOwner
	}
	if models.IsTerminalEscrowStatus(e.Status) {
		return nil, nil, fmt.Errorf("%w: %s", ErrTerminalState, e.Status)
	}
	if e.Status != models.EscrowStatusInitiated {
		return nil, nil, fmt.Errorf("%w: payment method can only be set while initiated", ErrInvalidTransition)
	}

	buyer, err := s.catalog.GetBuyer(ctx, buyerID)
	if err != nil {
		return nil, nil, err
	}

	provider := s.gateways.DefaultProvider()
	reference := gateway.GenerateReference("ESC")

	switch method {
	case models.PaymentMethodOnline:
		init, err := s.gateways.InitializePayment(ctx, provider, gateway.InitializeRequest{
			Payer: gateway.PayerContact{
				Email: buyer.Email,
				Name:  buyer.FullName,
				Phone: buyer.Phone,
			},
			Amount:      e.TotalAmount,
			Reference:   reference,
			Metadata:    map[string]any{"escrow_id": e.ID.String(), "type": models.PaymentTypeEscrowFunding},
			CallbackURL: s.cfg.PaymentCallbackURL,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.escrows.SetPaymentMethod(ctx, e.ID, method, reference); err != nil {
			return nil, nil, err
		}
		if err := s.recordFundingPayment(ctx, e, provider, reference); err != nil {
			return nil, nil, err
		}
		e.PaymentMethod = &method
		e.PaymentReference = &reference
		return e, init, nil

	case models.PaymentMethodBankTransfer:
		va, err := s.gateways.CreateVirtualAccount(ctx, provider, gateway.CustomerInfo{
			Email:     buyer.Email,
			FirstName: firstName(buyer.FullName),
			LastName:  lastName(buyer.FullName),
			Phone:     buyer.Phone,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.escrows.SetPaymentMethod(ctx, e.ID, method, reference); err != nil {
			return nil, nil, err
		}
		if err := s.escrows.SetVirtualAccount(ctx, e.ID, va.AccountNumber, va.BankName, va.AccountName); err != nil {
			return nil, nil, err
		}
		if err := s.recordFundingPayment(ctx, e, provider, reference); err != nil {
			return nil, nil, err
		}
		e.PaymentMethod = &method
		e.PaymentReference = &reference
		e.VirtualAccountNumber = &va.AccountNumber
		e.VirtualAccountBank = &va.BankName
		e.VirtualAccountName = &va.AccountName
		return e, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown payment method %q", method)
	}
}

func (s *EscrowService) recordFundingPayment(ctx context.Context, e *models.EscrowTransaction, provider, reference string) error {
	return s.payments.Create(ctx, &models.PaymentTransaction{
		Type:            models.PaymentTypeEscrowFunding,
		PayerID:         e.BuyerID,
		Amount:          e.TotalAmount,
		Gateway:         provider,
		Reference:       reference,
		Status:          models.PaymentStatusPending,
		RelatedEntityID: &e.ID,
	})
}

// ConfirmFunding verifies a funding payment with its gateway and, when
// the paid amount matches the expected total exactly, moves the
// transaction to funded. Partial and excess payments are rejected.
func (s *EscrowService) ConfirmFunding(ctx context.Context, reference string) (*models.EscrowTransaction, error) {
	e, err := s.escrows.GetByPaymentReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if e.Status == models.EscrowStatusFunded {
		return e, nil // idempotent re-confirmation
	}
	if e.PaymentMethod == nil {
		return nil, ErrPaymentMethodRequired
	}

	payment, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	verification, err := s.gateways.VerifyPayment(ctx, payment.Gateway, reference)
	if err != nil {
		return nil, err
	}

	if !verification.AmountPaid.Equal(e.TotalAmount) {
		_ = s.audit.Log(ctx, models.AuditLog{
			ActorType:  "system",
			Action:     "escrow_funding_amount_mismatch",
			EntityType: "escrow_transaction",
			EntityID:   &e.ID,
			Meta: map[string]any{
				"expected": e.TotalAmount.StringFixed(2),
				"paid":     verification.AmountPaid.StringFixed(2),
			},
		})
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrAmountMismatch,
			e.TotalAmount.StringFixed(2), verification.AmountPaid.StringFixed(2))
	}

	err = s.transition(ctx, e, models.EscrowStatusFunded, nil, "system", func() error {
		return s.escrows.MarkFunded(ctx, e.ID, e.Status)
	})
	if err != nil {
		return nil, err
	}

	gatewayRef := verification.Reference
	_ = s.payments.FinalizeStatus(ctx, reference, models.PaymentStatusCompleted, &gatewayRef)

	_ = s.publisher.Publish(ctx, events.ChannelPayments, events.Event{
		Type: events.EventPaymentReceived,
		Payload: map[string]any{
			"escrow_id": e.ID.String(),
			"reference": reference,
			"amount":    verification.AmountPaid.StringFixed(2),
		},
	})

	return e, nil
}

// RequestInspection creates the pending inspection for a funded
// transaction that opted in at initiation and moves the transaction to
// inspection_scheduled, blocking release/refund/approval until the
// inspection resolves.
func (s *EscrowService) RequestInspection(ctx context.Context, id, buyerID uuid.UUID) (*models.Inspection, error) {
	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.BuyerID != buyerID {
		return nil, ErrNotTransactionOwner
	}
	if !e.WantsInspection {
		return nil, ErrInspectionNotWanted
	}
	if e.Status != models.EscrowStatusFunded && e.Status != models.EscrowStatusInspectionScheduled {
		return nil, fmt.Errorf("%w: inspection requires a funded transaction", ErrInvalidTransition)
	}

	if existing, err := s.inspections.GetByEscrowID(ctx, id); err == nil {
		return existing, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	insp := &models.Inspection{
		EscrowTransactionID: e.ID,
		BuyerID:             buyerID,
		Status:              models.InspectionStatusPending,
		InspectionFee:       decimal.NewFromInt(s.cfg.InspectionFee),
	}
	if err := s.inspections.Create(ctx, insp); err != nil {
		return nil, err
	}

	if e.Status == models.EscrowStatusFunded {
		err = s.transition(ctx, e, models.EscrowStatusInspectionScheduled, &buyerID, "buyer", func() error {
			return s.escrows.UpdateStatus(ctx, e.ID, models.EscrowStatusFunded, models.EscrowStatusInspectionScheduled)
		})
		if err != nil {
			return nil, err
		}
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &buyerID,
		ActorType:   "buyer",
		Action:      "inspection_requested",
		EntityType:  "escrow_transaction",
		EntityID:    &e.ID,
	})

	return insp, nil
}

// BuyerApprove records the buyer's sign-off on the car, making the funds
// releasable.
func (s *EscrowService) BuyerApprove(ctx context.Context, id, buyerID uuid.UUID) (*models.EscrowTransaction, error) {
	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.BuyerID != buyerID {
		return nil, ErrNotTransactionOwner
	}

	err = s.transition(ctx, e, models.EscrowStatusApproved, &buyerID, "buyer", func() error {
		return s.escrows.MarkApproved(ctx, e.ID, e.Status)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// BuyerReject records the buyer's refusal. A reason is mandatory; it is
// what the admin works from when deciding the refund.
func (s *EscrowService) BuyerReject(ctx context.Context, id, buyerID uuid.UUID, reason string) (*models.EscrowTransaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.BuyerID != buyerID {
		return nil, ErrNotTransactionOwner
	}

	err = s.transition(ctx, e, models.EscrowStatusRejected, &buyerID, "buyer", func() error {
		return s.escrows.MarkRejected(ctx, e.ID, e.Status, reason)
	})
	if err != nil {
		return nil, err
	}
	e.RejectionReason = &reason
	return e, nil
}

// Cancel aborts an unfunded transaction and releases the catalog hold.
func (s *EscrowService) Cancel(ctx context.Context, id, buyerID uuid.UUID) (*models.EscrowTransaction, error) {
	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.BuyerID != buyerID {
		return nil, ErrNotTransactionOwner
	}

	err = s.transition(ctx, e, models.EscrowStatusCancelled, &buyerID, "buyer", func() error {
		return s.escrows.UpdateStatus(ctx, e.ID, e.Status, models.EscrowStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.catalog.MarkCarAvailable(ctx, e.CarID)
	return e, nil
}

// AdminRelease moves the transaction to released and returns the payout
// instruction for the dealer. The caller executes the transfer
// separately; its failure leaves the status released and the payout
// retryable.
func (s *EscrowService) AdminRelease(ctx context.Context, id, adminID uuid.UUID, note string) (*models.EscrowTransaction, *TransferInstruction, error) {
	if strings.TrimSpace(note) == "" {
		return nil, nil, ErrMissingJustification
	}

	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	dealer, err := s.catalog.GetDealer(ctx, e.DealerID)
	if err != nil {
		return nil, nil, err
	}

	dealerRef := gateway.GenerateReference("TRF")
	err = s.transition(ctx, e, models.EscrowStatusReleased, &adminID, "admin", func() error {
		return s.escrows.MarkReleased(ctx, e.ID, e.Status, note, dealerRef, true)
	})
	if err != nil {
		return nil, nil, err
	}
	e.DealerPaymentReference = &dealerRef
	e.AdminNotes = &note
	e.ReleasedByAdmin = true

	instr := s.payoutInstruction(models.PaymentTypeEscrowRelease, e, dealerRef,
		dealer.AccountNumber, dealer.BankCode, dealer.AccountName,
		// Dealer receives the car price; the fee stays with the platform.
		e.CarPrice, "JustCars escrow release")
	if err := s.recordPayout(ctx, e, instr); err != nil {
		s.log.Error("failed to record release payout", zap.Error(err), zap.String("escrow_id", e.ID.String()))
	}

	s.catalog.MarkCarSold(ctx, e.CarID)
	return e, instr, nil
}

// AdminRefund moves the transaction to refunded and returns the refund
// instruction for the buyer.
func (s *EscrowService) AdminRefund(ctx context.Context, id, adminID uuid.UUID, note string) (*models.EscrowTransaction, *TransferInstruction, error) {
	if strings.TrimSpace(note) == "" {
		return nil, nil, ErrMissingJustification
	}

	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	buyer, err := s.catalog.GetBuyer(ctx, e.BuyerID)
	if err != nil {
		return nil, nil, err
	}

	refundRef := gateway.GenerateReference("RFD")
	err = s.transition(ctx, e, models.EscrowStatusRefunded, &adminID, "admin", func() error {
		return s.escrows.MarkRefunded(ctx, e.ID, e.Status, note, refundRef, true)
	})
	if err != nil {
		return nil, nil, err
	}
	e.RefundReference = &refundRef
	e.AdminNotes = &note
	e.RefundedByAdmin = true

	instr := s.payoutInstruction(models.PaymentTypeEscrowRefund, e, refundRef,
		buyer.AccountNumber, buyer.BankCode, buyer.AccountName,
		e.TotalAmount, "JustCars escrow refund")
	if err := s.recordPayout(ctx, e, instr); err != nil {
		s.log.Error("failed to record refund payout", zap.Error(err), zap.String("escrow_id", e.ID.String()))
	}

	s.catalog.MarkCarAvailable(ctx, e.CarID)
	return e, instr, nil
}

// AdminDispute freezes the transaction pending investigation.
func (s *EscrowService) AdminDispute(ctx context.Context, id, adminID uuid.UUID, note string) (*models.EscrowTransaction, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ErrMissingJustification
	}

	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, e, models.EscrowStatusDisputed, &adminID, "admin", func() error {
		return s.escrows.MarkDisputed(ctx, e.ID, e.Status, note)
	})
	if err != nil {
		return nil, err
	}
	e.AdminNotes = &note
	return e, nil
}

// AdminResolveDispute ends a dispute with an explicit outcome: approved
// puts the transaction back on the release path; refunded pays the buyer
// back immediately and returns the refund instruction.
func (s *EscrowService) AdminResolveDispute(ctx context.Context, id, adminID uuid.UUID, outcome, note string) (*models.EscrowTransaction, *TransferInstruction, error) {
	if strings.TrimSpace(note) == "" {
		return nil, nil, ErrMissingJustification
	}
	if outcome != models.EscrowStatusApproved && outcome != models.EscrowStatusRefunded {
		return nil, nil, fmt.Errorf("%w: dispute outcome must be approved or refunded", ErrInvalidTransition)
	}

	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.Status != models.EscrowStatusDisputed {
		return nil, nil, fmt.Errorf("%w: transaction is not disputed", ErrInvalidTransition)
	}

	if outcome == models.EscrowStatusApproved {
		err = s.transition(ctx, e, models.EscrowStatusApproved, &adminID, "admin", func() error {
			return s.escrows.MarkDisputeResolved(ctx, e.ID, models.EscrowStatusApproved, note, nil)
		})
		if err != nil {
			return nil, nil, err
		}
		e.AdminNotes = &note
		return e, nil, nil
	}

	buyer, err := s.catalog.GetBuyer(ctx, e.BuyerID)
	if err != nil {
		return nil, nil, err
	}

	refundRef := gateway.GenerateReference("RFD")
	err = s.transition(ctx, e, models.EscrowStatusRefunded, &adminID, "admin", func() error {
		return s.escrows.MarkDisputeResolved(ctx, e.ID, models.EscrowStatusRefunded, note, &refundRef)
	})
	if err != nil {
		return nil, nil, err
	}
	e.AdminNotes = &note
	e.RefundReference = &refundRef

	instr := s.payoutInstruction(models.PaymentTypeEscrowRefund, e, refundRef,
		buyer.AccountNumber, buyer.BankCode, buyer.AccountName,
		e.TotalAmount, "JustCars dispute refund")
	if err := s.recordPayout(ctx, e, instr); err != nil {
		s.log.Error("failed to record dispute refund payout", zap.Error(err), zap.String("escrow_id", e.ID.String()))
	}

	s.catalog.MarkCarAvailable(ctx, e.CarID)
	return e, instr, nil
}

// RetryTransfer rebuilds the payout instruction of a released or refunded
// transaction whose transfer has not completed.
func (s *EscrowService) RetryTransfer(ctx context.Context, id, adminID uuid.UUID) (*TransferInstruction, error) {
	e, err := s.escrows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		reference   string
		paymentType string
	)
	switch e.Status {
	case models.EscrowStatusReleased:
		if e.DealerPaymentReference == nil {
			return nil, repositories.ErrNotFound
		}
		reference, paymentType = *e.DealerPaymentReference, models.PaymentTypeEscrowRelease
	case models.EscrowStatusRefunded:
		if e.RefundReference == nil {
			return nil, repositories.ErrNotFound
		}
		reference, paymentType = *e.RefundReference, models.PaymentTypeEscrowRefund
	default:
		return nil, fmt.Errorf("%w: no payout to retry in status %s", ErrInvalidTransition, e.Status)
	}

	payment, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil, ErrTransferNotRetryable
	}

	var account, bank, name *string
	var amount decimal.Decimal
	var narration string
	if paymentType == models.PaymentTypeEscrowRelease {
		dealer, err := s.catalog.GetDealer(ctx, e.DealerID)
		if err != nil {
			return nil, err
		}
		account, bank, name = dealer.AccountNumber, dealer.BankCode, dealer.AccountName
		amount, narration = e.CarPrice, "JustCars escrow release (retry)"
	} else {
		buyer, err := s.catalog.GetBuyer(ctx, e.BuyerID)
		if err != nil {
			return nil, err
		}
		account, bank, name = buyer.AccountNumber, buyer.BankCode, buyer.AccountName
		amount, narration = e.TotalAmount, "JustCars escrow refund (retry)"
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "transfer_retry",
		EntityType:  "escrow_transaction",
		EntityID:    &e.ID,
		Meta:        map[string]any{"reference": reference},
	})

	return s.payoutInstruction(paymentType, e, reference, account, bank, name, amount, narration), nil
}

// ReconcileFunding re-verifies pending funding payments whose callbacks
// never arrived. Returns how many were confirmed.
func (s *EscrowService) ReconcileFunding(ctx context.Context) (int, error) {
	pending, err := s.payments.ListPending(ctx, models.PaymentTypeEscrowFunding, 100)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, p := range pending {
		if _, err := s.ConfirmFunding(ctx, p.Reference); err != nil {
			s.log.Debug("funding not yet confirmable",
				zap.String("reference", p.Reference), zap.Error(err))
			continue
		}
		confirmed++
	}
	return confirmed, nil
}

func (s *EscrowService) payoutInstruction(paymentType string, e *models.EscrowTransaction, reference string, account, bank, name *string, amount decimal.Decimal, narration string) *TransferInstruction {
	instr := &TransferInstruction{
		PaymentType: paymentType,
		Provider:    s.gateways.DefaultProvider(),
		Request: gateway.TransferRequest{
			Amount:    amount,
			Reference: reference,
			Narration: narration,
		},
	}
	if account != nil {
		instr.Request.RecipientAccount = *account
	}
	if bank != nil {
		instr.Request.RecipientBank = *bank
	}
	if name != nil {
		instr.Request.RecipientName = *name
	}
	return instr
}

func (s *EscrowService) recordPayout(ctx context.Context, e *models.EscrowTransaction, instr *TransferInstruction) error {
	return s.payments.Create(ctx, &models.PaymentTransaction{
		Type:            instr.PaymentType,
		PayerID:         e.BuyerID,
		Amount:          instr.Request.Amount,
		Gateway:         instr.Provider,
		Reference:       instr.Request.Reference,
		Status:          models.PaymentStatusPending,
		RelatedEntityID: &e.ID,
	})
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
