package cartengine

import "github.com/shopspring/decimal"

// LineTotal is unit price times quantity, exact.
func LineTotal(line Line) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// OrderTotal sums line totals with no intermediate rounding. The running
// cart total, the checkout preview and the receipt all go through here so
// the three can never disagree.
func OrderTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// LinesTotal is OrderTotal over already-priced draft or sale lines.
func LinesTotal(lines []PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// FormatAmount renders an amount for display. Two-decimal presentation is
// applied here and nowhere earlier.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
