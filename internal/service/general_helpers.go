package service

import (
	"cmp"
	"slices"
)

// sortAssets orders assets by symbol, then ID, matching the holdings row order.
func sortAssets(assets []AssetWithQuote) {
	slices.SortFunc(assets, func(a, b AssetWithQuote) int {
		if c := cmp.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
