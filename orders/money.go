package orders

import (
	"github.com/shopspring/decimal"

	"resto-pos-api/models"
)

// roundCents rounds half-up to whole cents. All stored currency amounts pass
// through here exactly once.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// lineTotal is (unit price + modifier prices) × quantity.
func lineTotal(line models.OrderLine) decimal.Decimal {
	unit := line.UnitPrice
	for _, m := range line.Modifiers {
		unit = unit.Add(m.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// computeTotals returns (subtotal, tax, total) for a set of lines at the
// given tax rate. Tax is rounded to cents, so total == subtotal + tax holds
// exactly on the stored values.
func computeTotals(lines []models.OrderLine, taxRate decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(lineTotal(line))
	}
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal.Mul(taxRate))
	total := subtotal.Add(tax)
	return subtotal, tax, total
}
