package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inspection statuses
const (
	InspectionStatusPending    = "pending"
	InspectionStatusScheduled  = "scheduled"
	InspectionStatusInProgress = "in_progress"
	InspectionStatusCompleted  = "completed"
	InspectionStatusCancelled  = "cancelled"
)

// Valid state transitions: from -> []to. Re-assignment keeps a scheduled
// inspection in scheduled, hence the self-edge.
var ValidInspectionTransitions = map[string][]string{
	InspectionStatusPending:    {InspectionStatusScheduled, InspectionStatusCancelled},
	InspectionStatusScheduled:  {InspectionStatusScheduled, InspectionStatusInProgress, InspectionStatusCancelled},
	InspectionStatusInProgress: {InspectionStatusCompleted, InspectionStatusCancelled},
	InspectionStatusCompleted:  {},
	InspectionStatusCancelled:  {},
}

func IsValidInspectionTransition(from, to string) bool {
	allowed, ok := ValidInspectionTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminalInspectionStatus(status string) bool {
	allowed, ok := ValidInspectionTransitions[status]
	return ok && len(allowed) == 0
}

// Inspection is owned by the escrow transaction it belongs to. It is never
// deleted; completed and cancelled are terminal.
type Inspection struct {
	ID                  uuid.UUID `json:"id"`
	EscrowTransactionID uuid.UUID `json:"escrow_transaction_id"`
	BuyerID             uuid.UUID `json:"buyer_id"`

	Status        string          `json:"status"`
	InspectionFee decimal.Decimal `json:"inspection_fee"`

	InspectorName  *string    `json:"inspector_name,omitempty"`
	InspectorPhone *string    `json:"inspector_phone,omitempty"`
	ScheduledDate  *time.Time `json:"scheduled_date,omitempty"`

	OverallScore  *int    `json:"overall_score,omitempty"`
	ReportSummary *string `json:"report_summary,omitempty"`
	ReportFileURL *string `json:"report_file_url,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
