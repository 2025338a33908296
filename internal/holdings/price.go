package holdings

import (
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// staleAfterIntervals is how many refresh intervals a price may age before
// it is reported stale.
const staleAfterIntervals = 3

// ResolvePrice decides which price applies to an asset and whether it is stale.
//
// A manual price wins in MANUAL mode. It ages like an auto price when its
// update time is recorded and is never stale otherwise. Outside MANUAL mode
// the latest auto price is used, stale once it is older than three refresh
// intervals.
// Without an auto price the manual price is used as a stale fallback, and
// without either the quote is unpriced.
func ResolvePrice(asset model.Asset, refreshInterval time.Duration, now time.Time) model.PriceQuote {
	if asset.PricingMode == model.PricingManual && asset.ManualPrice.Valid {
		return model.PriceQuote{
			Price:       asset.ManualPrice,
			Source:      model.PriceSourceManual,
			LastUpdated: asset.ManualPriceUpdatedAt,
			IsManual:    true,
			IsStale:     asset.ManualPriceUpdatedAt != nil && olderThan(*asset.ManualPriceUpdatedAt, refreshInterval, now),
		}
	}

	if rec := asset.LatestPrice; rec != nil {
		updated := rec.LastUpdated
		return model.PriceQuote{
			Price:       decimal.NewNullDecimal(rec.PriceInBase),
			Source:      model.PriceSourceAuto,
			Provider:    rec.Source,
			LastUpdated: &updated,
			IsStale:     olderThan(updated, refreshInterval, now),
		}
	}

	if asset.ManualPrice.Valid {
		return model.PriceQuote{
			Price:       asset.ManualPrice,
			Source:      model.PriceSourceManual,
			LastUpdated: asset.ManualPriceUpdatedAt,
			IsManual:    true,
			IsStale:     true,
		}
	}

	return model.PriceQuote{Source: model.PriceSourceNone, IsStale: true}
}

func olderThan(updated time.Time, refreshInterval time.Duration, now time.Time) bool {
	return now.Sub(updated) > staleAfterIntervals*refreshInterval
}
