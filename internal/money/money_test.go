package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowFee(t *testing.T) {
	tests := []struct {
		name     string
		carPrice string
		wantFee  string
	}{
		{"zero price", "0", "0.00"},
		{"typical listing", "18500000", "277500.00"},
		{"twenty million", "20000000", "300000.00"},
		{"rounds to 2 decimals", "1000.99", "15.01"},
		{"small amount", "100", "1.50"},
		{"sub-naira rounding", "33", "0.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := EscrowFee(decimal.RequireFromString(tt.carPrice))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, fee.StringFixed(2))
		})
	}
}

func TestEscrowFeeNegativePrice(t *testing.T) {
	_, err := EscrowFee(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = EscrowTotal(decimal.NewFromInt(-500))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = EscrowBreakdown(decimal.NewFromInt(-500))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestEscrowTotal(t *testing.T) {
	total, err := EscrowTotal(decimal.NewFromInt(18500000))
	require.NoError(t, err)
	assert.Equal(t, "18777500.00", total.StringFixed(2))

	total, err = EscrowTotal(decimal.NewFromInt(20000000))
	require.NoError(t, err)
	assert.Equal(t, "20300000.00", total.StringFixed(2))

	total, err = EscrowTotal(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestEscrowFeeIsPure(t *testing.T) {
	price := decimal.NewFromInt(4250000)
	first, err := EscrowFee(price)
	require.NoError(t, err)
	second, err := EscrowFee(price)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestEscrowBreakdown(t *testing.T) {
	b, err := EscrowBreakdown(decimal.NewFromInt(20000000))
	require.NoError(t, err)
	assert.Equal(t, "20000000.00", b.CarPriceStr)
	assert.Equal(t, "300000.00", b.EscrowFeeStr)
	assert.Equal(t, "20300000.00", b.TotalStr)
	assert.True(t, b.Total.Equal(b.CarPrice.Add(b.EscrowFee)))
}

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₦0"},
		{"500", "₦500"},
		{"18500000", "₦18,500,000"},
		{"20300000", "₦20,300,000"},
		{"1234567.89", "₦1,234,568"},
		{"-2500", "-₦2,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNaira(decimal.RequireFromString(tt.amount)))
	}
}
