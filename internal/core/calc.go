// Package core holds the domain types and the financial calculation
// for invoices.
//
// The calculation pipeline is fixed: line items are summed into a subtotal,
// the discount percentage is taken off the subtotal, and tax is applied to
// the discounted amount. Tax is never computed on the raw subtotal.
package core

// Totals holds the four derived figures for an invoice.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}

// CalculateTotals derives subtotal, discount amount, tax amount and grand
// total from a sequence of line items and invoice-level percentages.
//
// It is pure and never fails: an empty item sequence yields all zeros, and a
// line item with a zero-valued quantity or price simply contributes nothing.
// Negative inputs are not rejected here; validation is an edge concern and
// the formula computes consistently either way.
func CalculateTotals(items []LineItem, discountPct, taxPct float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Quantity * it.Price
	}

	discountAmount := subtotal * (discountPct / 100)
	afterDiscount := subtotal - discountAmount
	taxAmount := afterDiscount * (taxPct / 100)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          afterDiscount + taxAmount,
	}
}

// Totals computes the derived figures for this invoice.
func (inv Invoice) Totals() Totals {
	return CalculateTotals(inv.LineItems, inv.Discount, inv.Tax)
}
