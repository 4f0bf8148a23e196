package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
	ShippingPriority = "priority"
)

var shippingFees = map[string]decimal.Decimal{
	ShippingStandard: decimal.RequireFromString("5.99"),
	ShippingExpress:  decimal.RequireFromString("12.99"),
	ShippingPriority: decimal.RequireFromString("8.99"),
}

var (
	taxRate           = decimal.RequireFromString("0.10")
	freeShippingAbove = decimal.RequireFromString("50")
)

// Line is one priced cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int32
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Quote is a full price breakdown. All amounts are exact until Rounded is
// called, rounding happens only at the boundary.
type Quote struct {
	ShippingMethod string
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// NewQuote prices the lines with the given shipping method. Unknown methods
// fall back to standard. Shipping is waived when the subtotal exceeds the
// free shipping threshold, tax applies to the subtotal only.
func NewQuote(lines []Line, shippingMethod string) Quote {
	if _, ok := shippingFees[shippingMethod]; !ok {
		shippingMethod = ShippingStandard
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}

	shippingFee := shippingFees[shippingMethod]
	if subtotal.GreaterThan(freeShippingAbove) {
		shippingFee = decimal.Zero
	}

	taxAmount := subtotal.Mul(taxRate)

	return Quote{
		ShippingMethod: shippingMethod,
		Subtotal:       subtotal,
		ShippingFee:    shippingFee,
		TaxAmount:      taxAmount,
		Total:          subtotal.Add(shippingFee).Add(taxAmount),
	}
}

// Rounded returns the quote with every amount rounded to cents. Only call at
// the persistence or presentation boundary.
func (q Quote) Rounded() Quote {
	return Quote{
		ShippingMethod: q.ShippingMethod,
		Subtotal:       q.Subtotal.Round(2),
		ShippingFee:    q.ShippingFee.Round(2),
		TaxAmount:      q.TaxAmount.Round(2),
		Total:          q.Total.Round(2),
	}
}
