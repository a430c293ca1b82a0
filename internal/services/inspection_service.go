package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/events"
	"github.com/justcars/backend/internal/models"
	"go.uber.org/zap"
)

type InspectionService struct {
	inspections InspectionStore
	escrows     EscrowStore
	audit       AuditStore
	publisher   events.Publisher
	cfg         *config.Config
	log         *zap.Logger
}

func NewInspectionService(
	inspections InspectionStore,
	escrows EscrowStore,
	audit AuditStore,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *InspectionService {
	return &InspectionService{
		inspections: inspections,
		escrows:     escrows,
		audit:       audit,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
}

func (s *InspectionService) transition(ctx context.Context, i *models.Inspection, to string, actorID *uuid.UUID, actorType string, apply func() error) error {
	if models.IsTerminalInspectionStatus(i.Status) {
		return fmt.Errorf("%w: %s", ErrTerminalState, i.Status)
	}
	if !models.IsValidInspectionTransition(i.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, i.Status, to)
	}

	oldStatus := i.Status
	if err := apply(); err != nil {
		return err
	}
	i.Status = to

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("inspection_status_%s_to_%s", oldStatus, to),
		EntityType:  "inspection",
		EntityID:    &i.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": to},
	})

	_ = s.publisher.Publish(ctx, events.ChannelInspections, events.Event{
		Type: events.EventInspectionUpdated,
		Payload: map[string]any{
			"inspection_id": i.ID.String(),
			"escrow_id":     i.EscrowTransactionID.String(),
			"old_status":    oldStatus,
			"new_status":    to,
		},
	})

	return nil
}

func (s *InspectionService) Get(ctx context.Context, id uuid.UUID) (*models.Inspection, error) {
	return s.inspections.GetByID(ctx, id)
}

func (s *InspectionService) GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*models.Inspection, error) {
	return s.inspections.GetByEscrowID(ctx, escrowID)
}

func (s *InspectionService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Inspection, error) {
	return s.inspections.ListByStatus(ctx, status, limit, offset)
}

// Assign puts an inspector on the job. Re-assigning an already scheduled
// inspection simply overwrites the inspector details; anything past
// scheduled cannot be re-assigned. The parent transaction already moved
// to inspection_scheduled when the buyer requested the inspection.
func (s *InspectionService) Assign(ctx context.Context, id, adminID uuid.UUID, name, phone string, date time.Time) (*models.Inspection, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(phone) == "" || date.IsZero() {
		return nil, ErrInspectorDetails
	}

	i, err := s.inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, i, models.InspectionStatusScheduled, &adminID, "admin", func() error {
		return s.inspections.Assign(ctx, i.ID, name, phone, date)
	})
	if err != nil {
		return nil, err
	}
	i.InspectorName = &name
	i.InspectorPhone = &phone
	i.ScheduledDate = &date

	return i, nil
}

// Start marks the inspector as on site.
func (s *InspectionService) Start(ctx context.Context, id, adminID uuid.UUID) (*models.Inspection, error) {
	i, err := s.inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, i, models.InspectionStatusInProgress, &adminID, "admin", func() error {
		return s.inspections.MarkInProgress(ctx, i.ID)
	})
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Complete files the inspection report. The score is a percentage and the
// summary is what the buyer reads before approving or rejecting the car,
// so both are mandatory. Completion also moves the parent transaction to
// inspection_completed.
func (s *InspectionService) Complete(ctx context.Context, id, adminID uuid.UUID, score int, summary string, fileURL *string) (*models.Inspection, error) {
	if score < 0 || score > 100 {
		return nil, ErrInvalidScore
	}
	if strings.TrimSpace(summary) == "" {
		return nil, ErrMissingReportSummary
	}

	i, err := s.inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, i, models.InspectionStatusCompleted, &adminID, "admin", func() error {
		return s.inspections.MarkCompleted(ctx, i.ID, score, summary, fileURL)
	})
	if err != nil {
		return nil, err
	}
	i.OverallScore = &score
	i.ReportSummary = &summary
	i.ReportFileURL = fileURL

	if err := s.markEscrow(ctx, i, models.EscrowStatusInspectionCompleted, adminID); err != nil {
		s.log.Error("failed to move escrow to inspection_completed",
			zap.String("escrow_id", i.EscrowTransactionID.String()), zap.Error(err))
	}

	return i, nil
}

// Cancel aborts a not-yet-completed inspection. The parent transaction
// stays where it is; the buyer can still approve or reject directly.
func (s *InspectionService) Cancel(ctx context.Context, id, adminID uuid.UUID) (*models.Inspection, error) {
	i, err := s.inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, i, models.InspectionStatusCancelled, &adminID, "admin", func() error {
		return s.inspections.MarkCancelled(ctx, i.ID)
	})
	if err != nil {
		return nil, err
	}
	return i, nil
}

// markEscrow mirrors an inspection milestone onto the parent escrow
// transaction, respecting its own transition rules.
func (s *InspectionService) markEscrow(ctx context.Context, i *models.Inspection, to string, adminID uuid.UUID) error {
	e, err := s.escrows.GetByID(ctx, i.EscrowTransactionID)
	if err != nil {
		return err
	}
	if !models.IsValidEscrowTransition(e.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, e.Status, to)
	}
	oldStatus := e.Status
	if err := s.escrows.UpdateStatus(ctx, e.ID, e.Status, to); err != nil {
		return err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      fmt.Sprintf("escrow_status_%s_to_%s", oldStatus, to),
		EntityType:  "escrow_transaction",
		EntityID:    &e.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": to, "inspection_id": i.ID.String()},
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
