package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Escrow transaction statuses
const (
	EscrowStatusInitiated           = "initiated"
	EscrowStatusFunded              = "funded"
	EscrowStatusInspectionScheduled = "inspection_scheduled"
	EscrowStatusInspectionCompleted = "inspection_completed"
	EscrowStatusApproved            = "approved"
	EscrowStatusRejected            = "rejected"
	EscrowStatusDisputed            = "disputed"
	EscrowStatusReleased            = "released"
	EscrowStatusRefunded            = "refunded"
	EscrowStatusCancelled           = "cancelled"
)

// Payment methods
const (
	PaymentMethodOnline       = "online"
	PaymentMethodBankTransfer = "bank_transfer"
)

// Valid state transitions: from -> []to
var ValidEscrowTransitions = map[string][]string{
	EscrowStatusInitiated:           {EscrowStatusFunded, EscrowStatusCancelled, EscrowStatusDisputed},
	EscrowStatusFunded:              {EscrowStatusInspectionScheduled, EscrowStatusInspectionCompleted, EscrowStatusApproved, EscrowStatusRejected, EscrowStatusReleased, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusInspectionScheduled: {EscrowStatusInspectionCompleted, EscrowStatusDisputed},
	EscrowStatusInspectionCompleted: {EscrowStatusApproved, EscrowStatusRejected, EscrowStatusReleased, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusApproved:            {EscrowStatusReleased, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusDisputed:            {EscrowStatusApproved, EscrowStatusRefunded},
	EscrowStatusReleased:            {},
	EscrowStatusRefunded:            {},
	EscrowStatusCancelled:           {},
	EscrowStatusRejected:            {},
}

// ActiveEscrowStatuses are the statuses that block a second concurrent
// transaction for the same (buyer, car) pair.
var ActiveEscrowStatuses = []string{
	EscrowStatusInitiated,
	EscrowStatusFunded,
	EscrowStatusInspectionScheduled,
	EscrowStatusInspectionCompleted,
}

func IsValidEscrowTransition(from, to string) bool {
	allowed, ok := ValidEscrowTransitions[from]
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

func IsTerminalEscrowStatus(status string) bool {
	allowed, ok := ValidEscrowTransitions[status]
	return ok && len(allowed) == 0
}

func IsActiveEscrowStatus(status string) bool {
	for _, s := range ActiveEscrowStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// EscrowTransaction holds buyer funds for a car purchase until the purchase
// conditions (inspection/approval) are satisfied. Buyer, dealer and car are
// owned by the marketplace catalog; only their ids are stored here.
type EscrowTransaction struct {
	ID       uuid.UUID `json:"id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
	DealerID uuid.UUID `json:"dealer_id"`
	CarID    uuid.UUID `json:"car_id"`

	CarPrice    decimal.Decimal `json:"car_price"`
	EscrowFee   decimal.Decimal `json:"escrow_fee"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	Status          string  `json:"status"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
	WantsInspection bool    `json:"wants_inspection"`

	PaymentReference       *string `json:"payment_reference,omitempty"`
	DealerPaymentReference *string `json:"dealer_payment_reference,omitempty"`
	RefundReference        *string `json:"refund_reference,omitempty"`

	VirtualAccountNumber *string `json:"virtual_account_number,omitempty"`
	VirtualAccountBank   *string `json:"virtual_account_bank,omitempty"`
	VirtualAccountName   *string `json:"virtual_account_name,omitempty"`

	AdminNotes       *string `json:"admin_notes,omitempty"`
	ReleasedByAdmin  bool    `json:"released_by_admin"`
	RefundedByAdmin  bool    `json:"refunded_by_admin"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`

	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	FundedAt          *time.Time `json:"funded_at,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
	DisputedAt        *time.Time `json:"disputed_at,omitempty"`
	DisputeResolvedAt *time.Time `json:"dispute_resolved_at,omitempty"`
}
