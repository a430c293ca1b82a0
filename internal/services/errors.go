package services

import "errors"

// Domain errors surfaced to the HTTP layer. Handlers map these onto
// response codes; anything else becomes a 500.
var (
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrTerminalState         = errors.New("transaction is in a terminal state")
	ErrMissingJustification  = errors.New("admin note is required for this action")
	ErrMissingReason         = errors.New("rejection reason is required")
	ErrInvalidScore          = errors.New("inspection score must be between 0 and 100")
	ErrMissingReportSummary  = errors.New("inspection report summary is required")
	ErrAmountMismatch        = errors.New("paid amount does not match the expected total")
	ErrCarUnavailable        = errors.New("car is not available for purchase")
	ErrBuyerNotVerified      = errors.New("buyer is not verified")
	ErrInspectionNotWanted   = errors.New("inspection was not requested for this transaction")
	ErrInspectorDetails      = errors.New("inspector name, phone and date are required")
	ErrPaymentMethodRequired = errors.New("payment method must be selected first")
	ErrNotTransactionOwner   = errors.New("transaction belongs to another buyer")
	ErrTransferNotRetryable  = errors.New("transfer already completed")
)
