package orderbookv1

import "github.com/shopspring/decimal"

// SweepAveragePrice walks a sorted book side best price first, consuming levels
// until the target quantity is filled, and returns the volume-weighted average
// price together with the quantity actually filled.
//
// A non-positive quantity or an empty side prices nothing and returns zeros.
// When the side is too shallow to fill the full quantity the average is still a
// valid VWAP over the liquidity that was available; callers detect the partial
// sweep by comparing filled against quantity.
func SweepAveragePrice(quantity decimal.Decimal, side BookSide) (avg, filled decimal.Decimal) {
	if len(side) == 0 || quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero
	}

	remaining := quantity
	weightedSum := decimal.Zero

	for _, level := range side {
		if level.Quantity.GreaterThanOrEqual(remaining) {
			// level satisfies the remainder and is only partially consumed
			weightedSum = weightedSum.Add(remaining.Mul(level.Price))
			filled = quantity
			remaining = decimal.Zero
			break
		}

		// level fully consumed, keep walking
		weightedSum = weightedSum.Add(level.Quantity.Mul(level.Price))
		remaining = remaining.Sub(level.Quantity)
		filled = filled.Add(level.Quantity)
	}

	if filled.IsZero() {
		return decimal.Zero, decimal.Zero
	}

	return weightedSum.Div(filled), filled
}
