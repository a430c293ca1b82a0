package rbac

// Role constants
const (
	RoleBuyer  = "buyer"
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)

// Permission constants
const (
	PermInitiateEscrow    = "initiate_escrow"
	PermFundEscrow        = "fund_escrow"
	PermRequestInspection = "request_inspection"
	PermApprovePurchase   = "approve_purchase"
	PermRejectPurchase    = "reject_purchase"
	PermCancelEscrow      = "cancel_escrow"
	PermViewOwnEscrows    = "view_own_escrows"
	PermReleaseFunds      = "release_funds"
	PermRefundFunds       = "refund_funds"
	PermManageDisputes    = "manage_disputes"
	PermManageInspections = "manage_inspections"
	PermRetryTransfers    = "retry_transfers"
)

// RolePermissions defines what each role can do. Fund movement is
// admin-only; buyers decide, admins move money.
var RolePermissions = map[string][]string{
	RoleBuyer: {
		PermInitiateEscrow, PermFundEscrow, PermRequestInspection,
		PermApprovePurchase, PermRejectPurchase, PermCancelEscrow,
		PermViewOwnEscrows,
	},
	RoleDealer: {
		PermViewOwnEscrows,
	},
	RoleAdmin: {
		PermViewOwnEscrows, PermReleaseFunds, PermRefundFunds,
		PermManageDisputes, PermManageInspections, PermRetryTransfers,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// IsFundMovement reports whether the permission moves escrowed money.
func IsFundMovement(permission string) bool {
	return permission == PermReleaseFunds || permission == PermRefundFunds
}
