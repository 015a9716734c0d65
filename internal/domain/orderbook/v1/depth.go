package orderbookv1

import "sort"

// MergeDepth applies a batch of level changes to one side of the book and
// returns the side re-sorted per the given ordering.
//
// A change with zero quantity removes the matching price if it is present; the
// venue may send removals for prices outside the locally requested depth, so a
// missing price is not an error. A change with positive quantity replaces the
// quantity at its price, or inserts a new level. Quantities are absolute, not
// deltas.
//
// A nil changes batch returns current unchanged. A nil current side is treated
// as an empty side. The returned side is freshly allocated; current is never
// mutated. No depth cap is enforced here, capping is caller policy.
func MergeDepth(current BookSide, changes []PriceLevel, ordering Ordering) BookSide {
	if changes == nil {
		return current
	}

	merged := make(BookSide, 0, len(current)+len(changes))
	merged = append(merged, current...)

	for _, change := range changes {
		idx := -1
		for i := range merged {
			if merged[i].Price.Equal(change.Price) {
				idx = i
				break
			}
		}

		if change.Quantity.IsZero() {
			// removal, a no-op when the price was never held locally
			if idx >= 0 {
				merged = append(merged[:idx], merged[idx+1:]...)
			}
			continue
		}

		if idx >= 0 {
			merged[idx] = change
		} else {
			merged = append(merged, change)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if ordering == PriceDescending {
			return merged[i].Price.GreaterThan(merged[j].Price)
		}
		return merged[i].Price.LessThan(merged[j].Price)
	})

	return merged
}
