package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price string, quantity int32) Line {
	return Line{UnitPrice: decimal.RequireFromString(price), Quantity: quantity}
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(
		t,
		actual.Equal(decimal.RequireFromString(expected)),
		"expected=%s actual=%s",
		expected,
		actual,
	)
}

func TestQuoteWithStandardShipping(t *testing.T) {
	quote := NewQuote([]Line{line("19.99", 2)}, ShippingStandard).Rounded()

	assertAmount(t, "39.98", quote.Subtotal)
	assertAmount(t, "5.99", quote.ShippingFee)
	assertAmount(t, "4.00", quote.TaxAmount)
	assertAmount(t, "49.97", quote.Total)
}

func TestQuoteShippingMethods(t *testing.T) {
	tests := []struct {
		method      string
		shippingFee string
	}{
		{method: ShippingStandard, shippingFee: "5.99"},
		{method: ShippingExpress, shippingFee: "12.99"},
		{method: ShippingPriority, shippingFee: "8.99"},
	}
	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			quote := NewQuote([]Line{line("10.00", 1)}, test.method)
			assert.Equal(t, test.method, quote.ShippingMethod)
			assertAmount(t, test.shippingFee, quote.ShippingFee)
		})
	}
}

func TestQuoteUnknownMethodFallsBackToStandard(t *testing.T) {
	quote := NewQuote([]Line{line("10.00", 1)}, "drone")

	assert.Equal(t, ShippingStandard, quote.ShippingMethod)
	assertAmount(t, "5.99", quote.ShippingFee)
}

func TestQuoteWaivesShippingAboveThreshold(t *testing.T) {
	quote := NewQuote([]Line{line("129.99", 1)}, ShippingExpress).Rounded()

	assert.True(t, quote.ShippingFee.IsZero())
	assertAmount(t, "129.99", quote.Subtotal)
	assertAmount(t, "13.00", quote.TaxAmount)
	assertAmount(t, "142.99", quote.Total)
}

func TestQuoteThresholdIsExclusive(t *testing.T) {
	// exactly 50.00 still pays shipping
	quote := NewQuote([]Line{line("25.00", 2)}, ShippingStandard)
	assertAmount(t, "5.99", quote.ShippingFee)

	quote = NewQuote([]Line{line("25.01", 2)}, ShippingStandard)
	assert.True(t, quote.ShippingFee.IsZero())
}

func TestQuoteRoundsOnlyAtBoundary(t *testing.T) {
	// 3 * 3.33 = 9.99, tax 0.999: the exact quote keeps the third decimal
	quote := NewQuote([]Line{line("3.33", 3)}, ShippingStandard)
	assertAmount(t, "0.999", quote.TaxAmount)
	assertAmount(t, "16.979", quote.Total)

	rounded := quote.Rounded()
	assertAmount(t, "1.00", rounded.TaxAmount)
	assertAmount(t, "16.98", rounded.Total)
}

func TestQuoteEmptyLines(t *testing.T) {
	quote := NewQuote(nil, ShippingStandard)

	require.True(t, quote.Subtotal.IsZero())
	assertAmount(t, "5.99", quote.ShippingFee)
	assert.True(t, quote.TaxAmount.IsZero())
	assertAmount(t, "5.99", quote.Total)
}
