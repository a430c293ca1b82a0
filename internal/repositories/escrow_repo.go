package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/justcars/backend/internal/models"
)

// ErrStatusConflict means a conditional status update matched no row: the
// transaction moved to another status between read and write.
var ErrStatusConflict = errors.New("escrow status changed concurrently")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

const escrowColumns = `
	id, buyer_id, dealer_id, car_id,
	car_price, escrow_fee, total_amount,
	status, payment_method, wants_inspection,
	payment_reference, dealer_payment_reference, refund_reference,
	virtual_account_number, virtual_account_bank, virtual_account_name,
	admin_notes, released_by_admin, refunded_by_admin, rejection_reason,
	created_at, updated_at,
	funded_at, approved_at, rejected_at, released_at, refunded_at,
	disputed_at, dispute_resolved_at`

func scanEscrow(row pgx.Row) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := row.Scan(
		&e.ID, &e.BuyerID, &e.DealerID, &e.CarID,
		&e.CarPrice, &e.EscrowFee, &e.TotalAmount,
		&e.Status, &e.PaymentMethod, &e.WantsInspection,
		&e.PaymentReference, &e.DealerPaymentReference, &e.RefundReference,
		&e.VirtualAccountNumber, &e.VirtualAccountBank, &e.VirtualAccountName,
		&e.AdminNotes, &e.ReleasedByAdmin, &e.RefundedByAdmin, &e.RejectionReason,
		&e.CreatedAt, &e.UpdatedAt,
		&e.FundedAt, &e.ApprovedAt, &e.RejectedAt, &e.ReleasedAt, &e.RefundedAt,
		&e.DisputedAt, &e.DisputeResolvedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new initiated transaction. The partial unique index on
// (buyer_id, car_id) over active statuses rejects a concurrent duplicate;
// on that conflict the already-existing active transaction is returned.
func (r *EscrowRepo) Create(ctx context.Context, e *models.EscrowTransaction) (*models.EscrowTransaction, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO escrow_transactions (buyer_id, dealer_id, car_id, car_price, escrow_fee, total_amount, status, wants_inspection)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, e.BuyerID, e.DealerID, e.CarID, e.CarPrice, e.EscrowFee, e.TotalAmount, e.Status, e.WantsInspection).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return r.GetActiveByBuyerAndCar(ctx, e.BuyerID, e.CarID)
		}
		return nil, err
	}
	return e, nil
}

func (r *EscrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+escrowColumns+` FROM escrow_transactions WHERE id = $1`, id)
	return scanEscrow(row)
}

func (r *EscrowRepo) GetActiveByBuyerAndCar(ctx context.Context, buyerID, carID uuid.UUID) (*models.EscrowTransaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+escrowColumns+`
		FROM escrow_transactions
		WHERE buyer_id = $1 AND car_id = $2
		  AND status = ANY($3)
		ORDER BY created_at DESC
		LIMIT 1
	`, buyerID, carID, models.ActiveEscrowStatuses)
	return scanEscrow(row)
}

func (r *EscrowRepo) GetByPaymentReference(ctx context.Context, reference string) (*models.EscrowTransaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+escrowColumns+` FROM escrow_transactions WHERE payment_reference = $1`, reference)
	return scanEscrow(row)
}

// EscrowFilter narrows listing queries.
type EscrowFilter struct {
	BuyerID  *uuid.UUID
	DealerID *uuid.UUID
	Status   string
	Limit    int
	Offset   int
}

func (r *EscrowRepo) List(ctx context.Context, f EscrowFilter) ([]models.EscrowTransaction, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	query := `SELECT` + escrowColumns + ` FROM escrow_transactions WHERE 1=1`
	args := []any{}
	argIdx := 1
	if f.BuyerID != nil {
		query += fmt.Sprintf(" AND buyer_id = $%d", argIdx)
		args = append(args, *f.BuyerID)
		argIdx++
	}
	if f.DealerID != nil {
		query += fmt.Sprintf(" AND dealer_id = $%d", argIdx)
		args = append(args, *f.DealerID)
		argIdx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EscrowTransaction
	for rows.Next() {
		e, err := scanEscrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// guard runs a conditional update and maps zero affected rows to
// ErrStatusConflict, keeping transitions serialized under concurrency.
func guard(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *EscrowRepo) SetPaymentMethod(ctx context.Context, id uuid.UUID, method, reference string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions
		SET payment_method = $1, payment_reference = $2, updated_at = now()
		WHERE id = $3 AND status = 'initiated'
	`, method, reference, id)
	return guard(tag, err)
}

func (r *EscrowRepo) SetVirtualAccount(ctx context.Context, id uuid.UUID, number, bank, name string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions
		SET virtual_account_number = $1, virtual_account_bank = $2, virtual_account_name = $3, updated_at = now()
		WHERE id = $4 AND status = 'initiated'
	`, number, bank, name, id)
	return guard(tag, err)
}

// UpdateStatus performs a guarded transition from one expected status to
// another. Timestamp side columns are handled by the dedicated Mark
// methods; this is the generic path.
func (r *EscrowRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkFunded(ctx context.Context, id uuid.UUID, from string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = 'funded', funded_at = now(), updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkApproved(ctx context.Context, id uuid.UUID, from string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = 'approved', approved_at = now(), updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkRejected(ctx context.Context, id uuid.UUID, from, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = 'rejected', rejected_at = now(), rejection_reason = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, reason, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkReleased(ctx context.Context, id uuid.UUID, from, note, dealerPaymentRef string, byAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions
		SET status = 'released', released_at = now(), admin_notes = $1,
		    dealer_payment_reference = $2, released_by_admin = $3, updated_at = now()
		WHERE id = $4 AND status = $5
	`, note, dealerPaymentRef, byAdmin, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkRefunded(ctx context.Context, id uuid.UUID, from, note, refundRef string, byAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions
		SET status = 'refunded', refunded_at = now(), admin_notes = $1,
		    refund_reference = $2, refunded_by_admin = $3, updated_at = now()
		WHERE id = $4 AND status = $5
	`, note, refundRef, byAdmin, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkDisputed(ctx context.Context, id uuid.UUID, from, note string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = 'disputed', disputed_at = now(), admin_notes = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, note, id, from)
	return guard(tag, err)
}

func (r *EscrowRepo) MarkDisputeResolved(ctx context.Context, id uuid.UUID, to, note string, refundRef *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions
		SET status = $1, dispute_resolved_at = now(), admin_notes = $2,
		    refund_reference = COALESCE($3, refund_reference),
		    refunded_at = CASE WHEN $1 = 'refunded' THEN now() ELSE refunded_at END,
		    updated_at = now()
		WHERE id = $4 AND status = 'disputed'
	`, to, note, refundRef, id)
	return guard(tag, err)
}
