package dto

import "time"

type IssueTokenRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type InitiateEscrowRequest struct {
	CarID           string `json:"car_id"`
	WantsInspection bool   `json:"wants_inspection"`
}

type SelectPaymentMethodRequest struct {
	Method string `json:"method"` // online / bank_transfer
}

type ConfirmFundingRequest struct {
	Reference string `json:"reference"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type AdminActionRequest struct {
	Note string `json:"note"`
}

type ResolveDisputeRequest struct {
	Outcome string `json:"outcome"` // approved / refunded
	Note    string `json:"note"`
}

type AssignInspectorRequest struct {
	InspectorName  string    `json:"inspector_name"`
	InspectorPhone string    `json:"inspector_phone"`
	ScheduledDate  time.Time `json:"scheduled_date"`
}

type CompleteInspectionRequest struct {
	Score      int     `json:"score"`
	Summary    string  `json:"summary"`
	ReportFile *string `json:"report_file,omitempty"`
}

type VerifyAccountRequest struct {
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Gateway       string `json:"gateway,omitempty"`
}
