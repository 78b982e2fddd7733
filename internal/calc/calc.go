// Package calc holds the line item amount and total calculators shared by
// the invoice and bill handlers and the platform payload builders.
package calc

import (
	"github.com/shopspring/decimal"
)

// CategoryLineMinimum is the floor for account based bill lines. The
// platforms reject zero amount expense lines, so the console always
// submits at least one cent.
var CategoryLineMinimum = decimal.NewFromFloat(0.01)

var oneHundred = decimal.NewFromInt(100)

// LineAmount returns quantity × unit price, clamped at zero.
// Negative amounts never leave the calculators.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	amount := quantity.Mul(unitPrice)
	if amount.IsNegative() {
		return decimal.Zero
	}

	return amount
}

// XeroLineAmount applies the Xero discount and tax formula:
//
//	subtotal = quantity × unitPrice × (1 - discount/100)
//	tax      = subtotal × taxRate/100
//	amount   = subtotal + tax
//
// The tax amount is returned separately since Xero lines carry it as an
// explicit field.
func XeroLineAmount(quantity, unitPrice, discountPercent, taxRate decimal.Decimal) (tax, amount decimal.Decimal) {
	subtotal := quantity.Mul(unitPrice).Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred)))
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	tax = subtotal.Mul(taxRate.Div(oneHundred))
	return tax, subtotal.Add(tax)
}

// CategoryLineAmount returns quantity × unit price with the 0.01 floor
// applied.
func CategoryLineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	amount := LineAmount(quantity, unitPrice)
	if amount.LessThan(CategoryLineMinimum) {
		return CategoryLineMinimum
	}

	return amount
}

// Total sums the line amounts.
func Total(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}

	return total
}
