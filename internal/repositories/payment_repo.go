package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/justcars/backend/internal/models"
)

// PaymentRepo records every money movement the platform initiates or
// observes. Rows are append-only; only the status can be finalized.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `
	id, type, payer_id, amount, gateway, reference,
	gateway_reference, status, related_entity_id, created_at`

func scanPayment(row pgx.Row) (*models.PaymentTransaction, error) {
	var p models.PaymentTransaction
	err := row.Scan(
		&p.ID, &p.Type, &p.PayerID, &p.Amount, &p.Gateway, &p.Reference,
		&p.GatewayReference, &p.Status, &p.RelatedEntityID, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *models.PaymentTransaction) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO payment_transactions (type, payer_id, amount, gateway, reference, gateway_reference, status, related_entity_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, p.Type, p.PayerID, p.Amount, p.Gateway, p.Reference, p.GatewayReference, p.Status, p.RelatedEntityID).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepo) GetByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+paymentColumns+` FROM payment_transactions WHERE reference = $1`, reference)
	return scanPayment(row)
}

// FinalizeStatus moves a pending row to completed or failed, storing the
// gateway's own reference when one exists.
func (r *PaymentRepo) FinalizeStatus(ctx context.Context, reference, status string, gatewayRef *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payment_transactions SET status = $1, gateway_reference = COALESCE($2, gateway_reference)
		WHERE reference = $3 AND status = 'pending'
	`, status, gatewayRef, reference)
	return guard(tag, err)
}

func (r *PaymentRepo) ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT`+paymentColumns+` FROM payment_transactions
		WHERE related_entity_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListPending returns pending rows of one type, oldest first. The worker
// uses this to re-verify funding payments the callback never confirmed.
func (r *PaymentRepo) ListPending(ctx context.Context, paymentType string, limit int) ([]models.PaymentTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT`+paymentColumns+` FROM payment_transactions
		WHERE type = $1 AND status = 'pending'
		ORDER BY created_at ASC LIMIT $2
	`, paymentType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
