package checkout

import (
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Totals is the derived price breakdown of a cart. It is recomputed on
// demand and never stored on its own; a Sale persists its own snapshot.
// Amounts carry full decimal precision; call Rounded before display or
// persistence.
type Totals struct {
	Subtotal              valueobject.Money
	DiscountPercent       decimal.Decimal
	DiscountAmount        valueobject.Money
	SubtotalAfterDiscount valueobject.Money
	TaxRate               decimal.Decimal
	TaxAmount             valueobject.Money
	Total                 valueobject.Money
}

// ComputeTotals derives the totals breakdown for a cart at the given tax
// rate (e.g. 0.18 for the Peruvian IGV). Pure: reads the cart, mutates
// nothing. An empty cart yields all-zero totals.
func ComputeTotals(cart *Cart, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range cart.Lines() {
		subtotal = subtotal.Add(line.UnitPrice.Amount().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discountPercent := cart.DiscountPercent()
	discountAmount := subtotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
	afterDiscount := subtotal.Sub(discountAmount)
	taxAmount := afterDiscount.Mul(taxRate)
	total := afterDiscount.Add(taxAmount)

	return Totals{
		Subtotal:              valueobject.NewMoneyPEN(subtotal),
		DiscountPercent:       discountPercent,
		DiscountAmount:        valueobject.NewMoneyPEN(discountAmount),
		SubtotalAfterDiscount: valueobject.NewMoneyPEN(afterDiscount),
		TaxRate:               taxRate,
		TaxAmount:             valueobject.NewMoneyPEN(taxAmount),
		Total:                 valueobject.NewMoneyPEN(total),
	}
}

// Rounded returns the totals with every amount rounded to 2 decimal
// places. Rounding happens only here, at the display/persistence
// boundary, so intermediate arithmetic never compounds rounding error.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:              t.Subtotal.Round(2),
		DiscountPercent:       t.DiscountPercent,
		DiscountAmount:        t.DiscountAmount.Round(2),
		SubtotalAfterDiscount: t.SubtotalAfterDiscount.Round(2),
		TaxRate:               t.TaxRate,
		TaxAmount:             t.TaxAmount.Round(2),
		Total:                 t.Total.Round(2),
	}
}

// IsZero returns true if every amount in the breakdown is zero
func (t Totals) IsZero() bool {
	return t.Subtotal.IsZero() && t.DiscountAmount.IsZero() && t.TaxAmount.IsZero() && t.Total.IsZero()
}
