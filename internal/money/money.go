// Package money implements the platform's escrow fee rules and naira
// display formatting. All arithmetic is decimal; callers pass amounts in
// base currency units (naira).
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// EscrowFeeRate is the platform's escrow fee: 1.5% of the car price.
var EscrowFeeRate = decimal.RequireFromString("0.015")

var ErrInvalidAmount = errors.New("amount must be a non-negative value")

// Breakdown is the fee breakdown returned to callers, with 2-decimal
// string forms for display.
type Breakdown struct {
	CarPrice     decimal.Decimal `json:"-"`
	EscrowFee    decimal.Decimal `json:"-"`
	Total        decimal.Decimal `json:"-"`
	CarPriceStr  string          `json:"car_price"`
	EscrowFeeStr string          `json:"escrow_fee"`
	TotalStr     string          `json:"total"`
}

// EscrowFee returns the escrow fee for a car price, rounded to 2 decimal
// places. A zero price yields a zero fee; a negative price is a caller
// error.
func EscrowFee(carPrice decimal.Decimal) (decimal.Decimal, error) {
	if carPrice.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return carPrice.Mul(EscrowFeeRate).Round(2), nil
}

// EscrowTotal returns car price plus escrow fee.
func EscrowTotal(carPrice decimal.Decimal) (decimal.Decimal, error) {
	fee, err := EscrowFee(carPrice)
	if err != nil {
		return decimal.Zero, err
	}
	return carPrice.Add(fee), nil
}

// EscrowBreakdown computes the full fee breakdown for a car price.
func EscrowBreakdown(carPrice decimal.Decimal) (Breakdown, error) {
	fee, err := EscrowFee(carPrice)
	if err != nil {
		return Breakdown{}, err
	}
	total := carPrice.Add(fee)
	return Breakdown{
		CarPrice:     carPrice,
		EscrowFee:    fee,
		Total:        total,
		CarPriceStr:  carPrice.StringFixed(2),
		EscrowFeeStr: fee.StringFixed(2),
		TotalStr:     total.StringFixed(2),
	}, nil
}

// FormatNaira renders an amount as a display currency string: naira sign,
// grouped thousands, no decimals (en-NG display convention).
func FormatNaira(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().Round(0).StringFixed(0)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₦")
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
