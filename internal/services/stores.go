package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/models"
	"github.com/justcars/backend/internal/repositories"
)

// Persistence and collaborator contracts the services depend on. The
// repositories package provides the production implementations; tests
// substitute in-memory fakes.

type EscrowStore interface {
	Create(ctx context.Context, e *models.EscrowTransaction) (*models.EscrowTransaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error)
	GetActiveByBuyerAndCar(ctx context.Context, buyerID, carID uuid.UUID) (*models.EscrowTransaction, error)
	GetByPaymentReference(ctx context.Context, reference string) (*models.EscrowTransaction, error)
	List(ctx context.Context, f repositories.EscrowFilter) ([]models.EscrowTransaction, error)
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method, reference string) error
	SetVirtualAccount(ctx context.Context, id uuid.UUID, number, bank, name string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	MarkFunded(ctx context.Context, id uuid.UUID, from string) error
	MarkApproved(ctx context.Context, id uuid.UUID, from string) error
	MarkRejected(ctx context.Context, id uuid.UUID, from, reason string) error
	MarkReleased(ctx context.Context, id uuid.UUID, from, note, dealerPaymentRef string, byAdmin bool) error
	MarkRefunded(ctx context.Context, id uuid.UUID, from, note, refundRef string, byAdmin bool) error
	MarkDisputed(ctx context.Context, id uuid.UUID, from, note string) error
	MarkDisputeResolved(ctx context.Context, id uuid.UUID, to, note string, refundRef *string) error
}

type InspectionStore interface {
	Create(ctx context.Context, i *models.Inspection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Inspection, error)
	GetByEscrowID(ctx context.Context, escrowID uuid.UUID) (*models.Inspection, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Inspection, error)
	Assign(ctx context.Context, id uuid.UUID, name, phone string, date time.Time) error
	MarkInProgress(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, score int, summary string, fileURL *string) error
	MarkCancelled(ctx context.Context, id uuid.UUID) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.PaymentTransaction) error
	GetByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
	FinalizeStatus(ctx context.Context, reference, status string, gatewayRef *string) error
	ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error)
	ListPending(ctx context.Context, paymentType string, limit int) ([]models.PaymentTransaction, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]models.AuditLog, error)
}

// Catalog is implemented by CatalogClient.
type Catalog interface {
	GetCar(ctx context.Context, carID uuid.UUID) (*CarInfo, error)
	GetBuyer(ctx context.Context, buyerID uuid.UUID) (*BuyerInfo, error)
	GetDealer(ctx context.Context, dealerID uuid.UUID) (*DealerInfo, error)
	MarkCarPendingSale(ctx context.Context, carID uuid.UUID)
	MarkCarSold(ctx context.Context, carID uuid.UUID)
	MarkCarAvailable(ctx context.Context, carID uuid.UUID)
}

// PaymentGateways is implemented by gateway.Dispatcher.
type PaymentGateways interface {
	DefaultProvider() string
	InitializePayment(ctx context.Context, provider string, req gateway.InitializeRequest) (*gateway.InitializeResult, error)
	VerifyPayment(ctx context.Context, provider, reference string) (*gateway.VerifyResult, error)
	ListBanks(ctx context.Context, provider string) ([]gateway.Bank, error)
	VerifyAccountNumber(ctx context.Context, provider, accountNumber, bankCode string) (*gateway.AccountDetails, error)
	CreateVirtualAccount(ctx context.Context, provider string, customer gateway.CustomerInfo) (*gateway.VirtualAccount, error)
	InitiateTransfer(ctx context.Context, provider string, req gateway.TransferRequest) (*gateway.TransferResult, error)
}
