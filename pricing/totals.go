package pricing

import (
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat tax applied to the post-discount amount.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// TotalsInput carries everything the aggregator combines.
type TotalsInput struct {
	Currency      models.Currency
	Subtotal      decimal.Decimal
	PromoDiscount decimal.Decimal
	BulkDiscount  decimal.Decimal
}

// Aggregator combines a subtotal with discounts, tax and shipping.
type Aggregator struct {
	TaxRate  decimal.Decimal
	Shipping decimal.Decimal
}

// NewAggregator returns the storefront's current rules: 10% tax, free shipping.
func NewAggregator() Aggregator {
	return Aggregator{TaxRate: DefaultTaxRate, Shipping: decimal.Zero}
}

// Totals derives the checkout totals. The combined discount never exceeds the
// subtotal and the total is never negative.
func (a Aggregator) Totals(in TotalsInput) models.CheckoutTotals {
	subtotal := nonNegative(in.Subtotal)
	promo := nonNegative(in.PromoDiscount)
	bulk := nonNegative(in.BulkDiscount)

	discount := decimal.Min(promo.Add(bulk), subtotal)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(nonNegative(a.TaxRate))
	shipping := nonNegative(a.Shipping)
	total := nonNegative(taxable.Add(tax).Add(shipping))

	return models.CheckoutTotals{
		Currency:       in.Currency,
		Subtotal:       subtotal,
		PromoDiscount:  promo,
		BulkDiscount:   bulk,
		DiscountAmount: discount,
		Tax:            tax,
		Shipping:       shipping,
		Total:          total,
		Display: models.TotalsDisplay{
			Subtotal: Format(subtotal, in.Currency),
			Discount: Format(discount, in.Currency),
			Tax:      Format(tax, in.Currency),
			Shipping: Format(shipping, in.Currency),
			Total:    Format(total, in.Currency),
		},
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
