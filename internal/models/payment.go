package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment transaction types recorded in the ledger.
const (
	PaymentTypeEscrowFunding     = "escrow_funding"
	PaymentTypeEscrowRelease     = "escrow_release"
	PaymentTypeEscrowRefund      = "escrow_refund"
	PaymentTypeBadgeSubscription = "badge_subscription"
	PaymentTypeFeaturedListing   = "featured_listing"
	PaymentTypeBuyerVerification = "buyer_verification"
)

// Payment transaction statuses. A row is never updated after insertion
// except to finalize its status.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// PaymentTransaction is one row of the append-only payment audit ledger.
type PaymentTransaction struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	PayerID   uuid.UUID       `json:"payer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Gateway   string          `json:"gateway"`
	Reference string          `json:"reference"`

	GatewayReference *string    `json:"gateway_reference,omitempty"`
	Status           string     `json:"status"`
	RelatedEntityID  *uuid.UUID `json:"related_entity_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BadgePrice describes a dealer badge tier.
type BadgePrice struct {
	Price       decimal.Decimal `json:"price"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// BadgePricing mirrors the platform's dealer badge tiers.
var BadgePricing = map[string]BadgePrice{
	"verified": {
		Price:       decimal.Zero,
		Name:        "Verified Badge",
		Description: "Free verification badge for dealers",
	},
	"premium": {
		Price:       decimal.NewFromInt(30000),
		Name:        "Premium Dealer Badge",
		Description: "Enhanced visibility and premium features",
	},
	"luxury": {
		Price:       decimal.NewFromInt(100000),
		Name:        "Luxury Dealer Badge",
		Description: "Ultimate dealer status for luxury vehicles",
	},
}

// FeaturedPrice describes a featured-listing package price band.
type FeaturedPrice struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Default decimal.Decimal `json:"default"`
	Name    string          `json:"name"`
}

var FeaturedPricing = map[string]FeaturedPrice{
	"single": {
		Min:     decimal.NewFromInt(3000),
		Max:     decimal.NewFromInt(10000),
		Default: decimal.NewFromInt(5000),
		Name:    "Single Featured Listing",
	},
	"monthly": {
		Min:     decimal.NewFromInt(15000),
		Max:     decimal.NewFromInt(50000),
		Default: decimal.NewFromInt(25000),
		Name:    "Monthly Featured Package",
	},
}

// BuyerVerificationFee is the flat fee charged to verify a buyer.
var BuyerVerificationFee = decimal.NewFromInt(2000)

// ErrUnknownCharge is returned for a platform charge type or tier with no
// price on the books.
var ErrUnknownCharge = errors.New("unknown platform charge")

// PlatformChargeAmount resolves the ledger amount for a platform charge:
// badge tiers and buyer verification carry fixed prices; featured
// listings take the caller's amount within the package's band, or the
// band default when zero.
func PlatformChargeAmount(paymentType, tier string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch paymentType {
	case PaymentTypeBadgeSubscription:
		p, ok := BadgePricing[tier]
		if !ok {
			return decimal.Zero, ErrUnknownCharge
		}
		return p.Price, nil
	case PaymentTypeFeaturedListing:
		p, ok := FeaturedPricing[tier]
		if !ok {
			return decimal.Zero, ErrUnknownCharge
		}
		if amount.IsZero() {
			return p.Default, nil
		}
		if amount.LessThan(p.Min) || amount.GreaterThan(p.Max) {
			return decimal.Zero, ErrUnknownCharge
		}
		return amount, nil
	case PaymentTypeBuyerVerification:
		return BuyerVerificationFee, nil
	}
	return decimal.Zero, ErrUnknownCharge
}
