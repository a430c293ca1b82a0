package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/justcars/backend/internal/models"
)

type InspectionRepo struct {
	pool *pgxpool.Pool
}

func NewInspectionRepo(pool *pgxpool.Pool) *InspectionRepo {
	return &InspectionRepo{pool: pool}
}

const inspectionColumns = `
	id, escrow_transaction_id, buyer_id, status, inspection_fee,
	inspector_name, inspector_phone, scheduled_date,
	overall_score, report_summary, report_file_url,
	created_at, updated_at, completed_at, cancelled_at`

func scanInspection(row pgx.Row) (*models.Inspection, error) {
	var i models.Inspection
	err := row.Scan(
		&i.ID, &i.EscrowTransactionID, &i.BuyerID, &i.Status, &i.InspectionFee,
		&i.InspectorName, &i.InspectorPhone, &i.ScheduledDate,
		&i.OverallScore, &i.ReportSummary, &i.ReportFileURL,
		&i.CreatedAt, &i.UpdatedAt, &i.CompletedAt, &i.CancelledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InspectionRepo) Create(ctx context.Context, i *models.Inspection) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO inspections (escrow_transaction_id, buyer_id, status, inspection_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, i.EscrowTransactionID, i.BuyerID, i.Status, i.InspectionFee).
		Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

func (r *InspectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Inspection, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+inspectionColumns+` FROM inspections WHERE id = $1`, id)
	return scanInspection(row)
}

func (r *InspectionRepo) GetByEscrowID(ctx context.Context, escrowID uuid.UUID) (*models.Inspection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+inspectionColumns+` FROM inspections
		WHERE escrow_transaction_id = $1
		ORDER BY created_at DESC LIMIT 1
	`, escrowID)
	return scanInspection(row)
}

func (r *InspectionRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Inspection, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT`+inspectionColumns+` FROM inspections
		WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Inspection
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

// Assign moves a pending or scheduled inspection to scheduled with
// inspector details. Re-assignment of an already scheduled inspection is
// allowed; an in_progress or terminal one is not.
func (r *InspectionRepo) Assign(ctx context.Context, id uuid.UUID, name, phone string, date time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inspections
		SET status = 'scheduled', inspector_name = $1, inspector_phone = $2, scheduled_date = $3, updated_at = now()
		WHERE id = $4 AND status IN ('pending', 'scheduled')
	`, name, phone, date, id)
	return guard(tag, err)
}

func (r *InspectionRepo) MarkInProgress(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inspections SET status = 'in_progress', updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`, id)
	return guard(tag, err)
}

func (r *InspectionRepo) MarkCompleted(ctx context.Context, id uuid.UUID, score int, summary string, fileURL *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inspections
		SET status = 'completed', overall_score = $1, report_summary = $2, report_file_url = $3,
		    completed_at = now(), updated_at = now()
		WHERE id = $4 AND status = 'in_progress'
	`, score, summary, fileURL, id)
	return guard(tag, err)
}

func (r *InspectionRepo) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inspections SET status = 'cancelled', cancelled_at = now(), updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'scheduled', 'in_progress')
	`, id)
	return guard(tag, err)
}
