package orderbookv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build a level from int prices and quantities
func level(price, quantity int64) PriceLevel {
	return PriceLevel{
		Price:    decimal.NewFromInt(price),
		Quantity: decimal.NewFromInt(quantity),
	}
}

func prices(side BookSide) []string {
	out := make([]string, len(side))
	for i, l := range side {
		out[i] = l.Price.String()
	}
	return out
}

func TestMergeDepth_NilChanges(t *testing.T) {
	current := BookSide{level(1, 1), level(2, 2)}

	merged := MergeDepth(current, nil, PriceAscending)

	assert.Equal(t, current, merged)

	// nil against nil stays an empty side, not an error
	merged = MergeDepth(nil, nil, PriceAscending)
	assert.Empty(t, merged)
}

func TestMergeDepth_RemovalsAgainstNothing(t *testing.T) {
	changes := []PriceLevel{level(1, 0), level(2, 0)}

	merged := MergeDepth(nil, changes, PriceAscending)

	// removal against nothing is a no-op, but the side comes back initialized
	require.NotNil(t, merged)
	assert.Equal(t, 0, len(merged))
}

func TestMergeDepth_RemoveMatchingLevels(t *testing.T) {
	changes := []PriceLevel{level(1, 0), level(2, 0), level(3, 0)}
	current := BookSide{level(1, 1), level(2, 2), level(3, 3)}

	merged := MergeDepth(current, changes, PriceAscending)
	assert.Equal(t, 0, len(merged))
}

func TestMergeDepth_RemoveDisjointLevels(t *testing.T) {
	changes := []PriceLevel{level(1, 0), level(2, 0), level(3, 0)}
	current := BookSide{level(4, 1), level(5, 2), level(6, 3)}

	merged := MergeDepth(current, changes, PriceAscending)
	assert.Equal(t, 3, len(merged))
}

func TestMergeDepth_AddAsksSortedAscending(t *testing.T) {
	changes := []PriceLevel{level(1, 1), level(3, 3), level(5, 5)}
	current := BookSide{level(2, 2), level(4, 4), level(6, 6)}

	merged := MergeDepth(current, changes, PriceAscending)

	require.Equal(t, 6, len(merged))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, prices(merged))
}

func TestMergeDepth_AddBidsSortedDescending(t *testing.T) {
	changes := []PriceLevel{level(5, 5), level(3, 3), level(1, 1)}
	current := BookSide{level(6, 6), level(4, 4), level(2, 2)}

	merged := MergeDepth(current, changes, PriceDescending)

	require.Equal(t, 6, len(merged))
	assert.Equal(t, []string{"6", "5", "4", "3", "2", "1"}, prices(merged))
}

func TestMergeDepth_ReplacesQuantity(t *testing.T) {
	// quantities are absolute, an update replaces rather than sums
	changes := []PriceLevel{level(1, 2), level(2, 4), level(3, 6)}
	current := BookSide{level(1, 1), level(2, 2), level(3, 3)}

	merged := MergeDepth(current, changes, PriceAscending)

	require.Equal(t, 3, len(merged))
	assert.True(t, merged[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, merged[1].Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, merged[2].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestMergeDepth_AddUpdateRemoveInOneBatch(t *testing.T) {
	changes := []PriceLevel{
		level(1, 1), // add
		level(2, 2), // update, current holds qty 1
		level(3, 3), // add
		level(4, 0), // remove
		level(5, 5), // add
		level(7, 7), // add
	}
	current := BookSide{level(2, 1), level(4, 4), level(6, 6)}

	merged := MergeDepth(current, changes, PriceAscending)

	require.Equal(t, 6, len(merged))
	assert.Equal(t, []string{"1", "2", "3", "5", "6", "7"}, prices(merged))
	assert.True(t, merged[1].Quantity.Equal(decimal.NewFromInt(2)), "updated level carries the new absolute quantity")
}

func TestMergeDepth_DoesNotMutateCurrent(t *testing.T) {
	current := BookSide{level(2, 2), level(4, 4)}
	changes := []PriceLevel{level(3, 3), level(4, 0)}

	merged := MergeDepth(current, changes, PriceAscending)

	assert.Equal(t, []string{"2", "4"}, prices(current))
	assert.Equal(t, []string{"2", "3"}, prices(merged))
}

// Property: any sequence of merges leaves the side strictly monotonic in price
// with no duplicate prices.
func TestMergeDepth_StaysStrictlyMonotonic(t *testing.T) {
	batches := [][]PriceLevel{
		{level(10, 1), level(5, 2), level(7, 3)},
		{level(5, 0), level(6, 1), level(10, 9)},
		{level(1, 4), level(7, 0), level(8, 2), level(2, 1)},
		{level(6, 0), level(3, 3), level(10, 0), level(4, 7)},
	}

	for _, ordering := range []Ordering{PriceAscending, PriceDescending} {
		var side BookSide
		for _, batch := range batches {
			side = MergeDepth(side, batch, ordering)

			for i := 1; i < len(side); i++ {
				cmp := side[i-1].Price.Cmp(side[i].Price)
				if ordering == PriceAscending {
					assert.Equal(t, -1, cmp, "ask prices must be strictly ascending")
				} else {
					assert.Equal(t, 1, cmp, "bid prices must be strictly descending")
				}
			}
		}
	}
}
