package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/models"
	"github.com/justcars/backend/internal/repositories"
	"github.com/shopspring/decimal"
)

// In-memory fakes mirroring the repositories' guarded-update semantics.

type fakeEscrowStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.EscrowTransaction
}

func newFakeEscrowStore() *fakeEscrowStore {
	return &fakeEscrowStore{rows: make(map[uuid.UUID]*models.EscrowTransaction)}
}

func (f *fakeEscrowStore) Create(_ context.Context, e *models.EscrowTransaction) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.BuyerID == e.BuyerID && r.CarID == e.CarID && models.IsActiveEscrowStatus(r.Status) {
			cp := *r
			return &cp, nil
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.rows[e.ID] = &cp
	return e, nil
}

func (f *fakeEscrowStore) GetByID(_ context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeEscrowStore) GetActiveByBuyerAndCar(_ context.Context, buyerID, carID uuid.UUID) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.BuyerID == buyerID && r.CarID == carID && models.IsActiveEscrowStatus(r.Status) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEscrowStore) GetByPaymentReference(_ context.Context, reference string) (*models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.PaymentReference != nil && *r.PaymentReference == reference {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEscrowStore) List(_ context.Context, filter repositories.EscrowFilter) ([]models.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EscrowTransaction
	for _, r := range f.rows {
		if filter.BuyerID != nil && r.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.DealerID != nil && r.DealerID != *filter.DealerID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// mutate applies fn when the row exists and its status is one of from;
// otherwise it reports the same conflict the SQL guard would.
func (f *fakeEscrowStore) mutate(id uuid.UUID, fn func(*models.EscrowTransaction), from ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return repositories.ErrStatusConflict
	}
	matched := len(from) == 0
	for _, s := range from {
		if r.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return repositories.ErrStatusConflict
	}
	fn(r)
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeEscrowStore) SetPaymentMethod(_ context.Context, id uuid.UUID, method, reference string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		r.PaymentMethod = &method
		r.PaymentReference = &reference
	}, models.EscrowStatusInitiated)
}

func (f *fakeEscrowStore) SetVirtualAccount(_ context.Context, id uuid.UUID, number, bank, name string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		r.VirtualAccountNumber = &number
		r.VirtualAccountBank = &bank
		r.VirtualAccountName = &name
	}, models.EscrowStatusInitiated)
}

func (f *fakeEscrowStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) { r.Status = to }, from)
}

func (f *fakeEscrowStore) MarkFunded(_ context.Context, id uuid.UUID, from string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusFunded
		r.FundedAt = &now
	}, from)
}

func (f *fakeEscrowStore) MarkApproved(_ context.Context, id uuid.UUID, from string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusApproved
		r.ApprovedAt = &now
	}, from)
}

func (f *fakeEscrowStore) MarkRejected(_ context.Context, id uuid.UUID, from, reason string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusRejected
		r.RejectedAt = &now
		r.RejectionReason = &reason
	}, from)
}

func (f *fakeEscrowStore) MarkReleased(_ context.Context, id uuid.UUID, from, note, dealerPaymentRef string, byAdmin bool) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusReleased
		r.ReleasedAt = &now
		r.AdminNotes = &note
		r.DealerPaymentReference = &dealerPaymentRef
		r.ReleasedByAdmin = byAdmin
	}, from)
}

func (f *fakeEscrowStore) MarkRefunded(_ context.Context, id uuid.UUID, from, note, refundRef string, byAdmin bool) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusRefunded
		r.RefundedAt = &now
		r.AdminNotes = &note
		r.RefundReference = &refundRef
		r.RefundedByAdmin = byAdmin
	}, from)
}

func (f *fakeEscrowStore) MarkDisputed(_ context.Context, id uuid.UUID, from, note string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = models.EscrowStatusDisputed
		r.DisputedAt = &now
		r.AdminNotes = &note
	}, from)
}

func (f *fakeEscrowStore) MarkDisputeResolved(_ context.Context, id uuid.UUID, to, note string, refundRef *string) error {
	return f.mutate(id, func(r *models.EscrowTransaction) {
		now := time.Now()
		r.Status = to
		r.DisputeResolvedAt = &now
		r.AdminNotes = &note
		if refundRef != nil {
			r.RefundReference = refundRef
			r.RefundedAt = &now
		}
	}, models.EscrowStatusDisputed)
}

type fakeInspectionStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Inspection
}

func newFakeInspectionStore() *fakeInspectionStore {
	return &fakeInspectionStore{rows: make(map[uuid.UUID]*models.Inspection)}
}

func (f *fakeInspectionStore) Create(_ context.Context, i *models.Inspection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	i.UpdatedAt = i.CreatedAt
	cp := *i
	f.rows[i.ID] = &cp
	return nil
}

func (f *fakeInspectionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeInspectionStore) GetByEscrowID(_ context.Context, escrowID uuid.UUID) (*models.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.EscrowTransactionID == escrowID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeInspectionStore) ListByStatus(_ context.Context, status string, _, _ int) ([]models.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Inspection
	for _, r := range f.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeInspectionStore) mutate(id uuid.UUID, fn func(*models.Inspection), from ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return repositories.ErrStatusConflict
	}
	matched := false
	for _, s := range from {
		if r.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return repositories.ErrStatusConflict
	}
	fn(r)
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeInspectionStore) Assign(_ context.Context, id uuid.UUID, name, phone string, date time.Time) error {
	return f.mutate(id, func(r *models.Inspection) {
		r.Status = models.InspectionStatusScheduled
		r.InspectorName = &name
		r.InspectorPhone = &phone
		r.ScheduledDate = &date
	}, models.InspectionStatusPending, models.InspectionStatusScheduled)
}

func (f *fakeInspectionStore) MarkInProgress(_ context.Context, id uuid.UUID) error {
	return f.mutate(id, func(r *models.Inspection) {
		r.Status = models.InspectionStatusInProgress
	}, models.InspectionStatusScheduled)
}

func (f *fakeInspectionStore) MarkCompleted(_ context.Context, id uuid.UUID, score int, summary string, fileURL *string) error {
	return f.mutate(id, func(r *models.Inspection) {
		now := time.Now()
		r.Status = models.InspectionStatusCompleted
		r.OverallScore = &score
		r.ReportSummary = &summary
		r.ReportFileURL = fileURL
		r.CompletedAt = &now
	}, models.InspectionStatusInProgress)
}

func (f *fakeInspectionStore) MarkCancelled(_ context.Context, id uuid.UUID) error {
	return f.mutate(id, func(r *models.Inspection) {
		now := time.Now()
		r.Status = models.InspectionStatusCancelled
		r.CancelledAt = &now
	}, models.InspectionStatusPending, models.InspectionStatusScheduled, models.InspectionStatusInProgress)
}

type fakePaymentStore struct {
	mu   sync.Mutex
	rows map[string]*models.PaymentTransaction // by reference
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{rows: make(map[string]*models.PaymentTransaction)}
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.PaymentTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	f.rows[p.Reference] = &cp
	return nil
}

func (f *fakePaymentStore) GetByReference(_ context.Context, reference string) (*models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[reference]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakePaymentStore) FinalizeStatus(_ context.Context, reference, status string, gatewayRef *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[reference]
	if !ok || r.Status != models.PaymentStatusPending {
		return repositories.ErrStatusConflict
	}
	r.Status = status
	if gatewayRef != nil {
		r.GatewayReference = gatewayRef
	}
	return nil
}

func (f *fakePaymentStore) ListByEntity(_ context.Context, entityID uuid.UUID, _, _ int) ([]models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentTransaction
	for _, r := range f.rows {
		if r.RelatedEntityID != nil && *r.RelatedEntityID == entityID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListPending(_ context.Context, paymentType string, _ int) ([]models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentTransaction
	for _, r := range f.rows {
		if r.Type == paymentType && r.Status == models.PaymentStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAuditStore) Log(_ context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID, _, _ int) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuditLog
	for _, e := range f.entries {
		if e.EntityType == entityType && e.EntityID != nil && *e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditStore) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeCatalog struct {
	car    *CarInfo
	buyer  *BuyerInfo
	dealer *DealerInfo

	pendingSale int
	sold        int
	available   int
}

func (f *fakeCatalog) GetCar(context.Context, uuid.UUID) (*CarInfo, error) {
	if f.car == nil {
		return nil, repositories.ErrNotFound
	}
	return f.car, nil
}

func (f *fakeCatalog) GetBuyer(context.Context, uuid.UUID) (*BuyerInfo, error) {
	if f.buyer == nil {
		return nil, repositories.ErrNotFound
	}
	return f.buyer, nil
}

func (f *fakeCatalog) GetDealer(context.Context, uuid.UUID) (*DealerInfo, error) {
	if f.dealer == nil {
		return nil, repositories.ErrNotFound
	}
	return f.dealer, nil
}

func (f *fakeCatalog) MarkCarPendingSale(context.Context, uuid.UUID) { f.pendingSale++ }
func (f *fakeCatalog) MarkCarSold(context.Context, uuid.UUID)       { f.sold++ }
func (f *fakeCatalog) MarkCarAvailable(context.Context, uuid.UUID)  { f.available++ }

type fakeGateways struct {
	verifyAmount   decimal.Decimal
	verifyErr      error
	transferErr    error
	transfers      []gateway.TransferRequest
	virtualAccount *gateway.VirtualAccount
}

func (f *fakeGateways) DefaultProvider() string { return gateway.ProviderPaystack }

func (f *fakeGateways) InitializePayment(_ context.Context, _ string, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	return &gateway.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/test",
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateways) VerifyPayment(_ context.Context, _, reference string) (*gateway.VerifyResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &gateway.VerifyResult{
		AmountPaid: f.verifyAmount,
		Status:     "success",
		Reference:  reference,
	}, nil
}

func (f *fakeGateways) ListBanks(context.Context, string) ([]gateway.Bank, error) {
	return []gateway.Bank{{Name: "GTBank", Code: "058"}}, nil
}

func (f *fakeGateways) VerifyAccountNumber(_ context.Context, _, accountNumber, _ string) (*gateway.AccountDetails, error) {
	return &gateway.AccountDetails{AccountName: "Test Account", AccountNumber: accountNumber}, nil
}

func (f *fakeGateways) CreateVirtualAccount(context.Context, string, gateway.CustomerInfo) (*gateway.VirtualAccount, error) {
	if f.virtualAccount != nil {
		return f.virtualAccount, nil
	}
	return &gateway.VirtualAccount{AccountNumber: "9912345678", AccountName: "JustCars Escrow", BankName: "Wema Bank"}, nil
}

func (f *fakeGateways) InitiateTransfer(_ context.Context, _ string, req gateway.TransferRequest) (*gateway.TransferResult, error) {
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	f.transfers = append(f.transfers, req)
	return &gateway.TransferResult{TransferID: "TRF_fake", Reference: req.Reference, Status: "pending"}, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}
