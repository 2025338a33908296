package holdings

import (
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestResolvePrice tests manual/auto precedence and staleness.
func TestResolvePrice(t *testing.T) {
	now := baseTime
	interval := 15 * time.Minute
	manualAt := now.Add(-30 * 24 * time.Hour)
	recentManualAt := now.Add(-45 * time.Minute)
	manual := decimal.NewNullDecimal(dec("2"))
	auto := func(age time.Duration) *model.PriceRecord {
		return &model.PriceRecord{AssetID: "a", PriceInBase: dec("3"), Source: "coingecko", LastUpdated: now.Add(-age)}
	}

	tests := []struct {
		name       string
		asset      model.Asset
		wantPrice  string
		wantSource model.PriceSource
		wantManual bool
		wantStale  bool
	}{
		{
			name:       "manual mode uses a recently updated manual price",
			asset:      model.Asset{PricingMode: model.PricingManual, ManualPrice: manual, ManualPriceUpdatedAt: &recentManualAt, LatestPrice: auto(0)},
			wantPrice:  "2",
			wantSource: model.PriceSourceManual,
			wantManual: true,
		},
		{
			name:       "manual price ages from its own update time",
			asset:      model.Asset{PricingMode: model.PricingManual, ManualPrice: manual, ManualPriceUpdatedAt: &manualAt, LatestPrice: auto(0)},
			wantPrice:  "2",
			wantSource: model.PriceSourceManual,
			wantManual: true,
			wantStale:  true,
		},
		{
			name:       "manual price without update time is never stale",
			asset:      model.Asset{PricingMode: model.PricingManual, ManualPrice: manual},
			wantPrice:  "2",
			wantSource: model.PriceSourceManual,
			wantManual: true,
		},
		{
			name:       "manual mode without manual price falls through to auto",
			asset:      model.Asset{PricingMode: model.PricingManual, LatestPrice: auto(time.Minute)},
			wantPrice:  "3",
			wantSource: model.PriceSourceAuto,
		},
		{
			name:       "fresh auto price",
			asset:      model.Asset{PricingMode: model.PricingAuto, ManualPrice: manual, LatestPrice: auto(45 * time.Minute)},
			wantPrice:  "3",
			wantSource: model.PriceSourceAuto,
		},
		{
			name:       "auto price older than three intervals is stale",
			asset:      model.Asset{PricingMode: model.PricingAuto, LatestPrice: auto(45*time.Minute + time.Second)},
			wantPrice:  "3",
			wantSource: model.PriceSourceAuto,
			wantStale:  true,
		},
		{
			name:       "auto mode falls back to manual price as stale",
			asset:      model.Asset{PricingMode: model.PricingAuto, ManualPrice: manual},
			wantPrice:  "2",
			wantSource: model.PriceSourceManual,
			wantManual: true,
			wantStale:  true,
		},
		{
			name:       "no price at all",
			asset:      model.Asset{PricingMode: model.PricingAuto},
			wantSource: model.PriceSourceNone,
			wantStale:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ResolvePrice(tt.asset, interval, now)

			assert.Equal(t, tt.wantSource, q.Source)
			assert.Equal(t, tt.wantManual, q.IsManual)
			assert.Equal(t, tt.wantStale, q.IsStale)
			if tt.wantPrice == "" {
				assert.False(t, q.Price.Valid)
				assert.False(t, q.Priced())
				return
			}
			assert.True(t, q.Price.Valid)
			assertDecimal(t, tt.wantPrice, q.Price.Decimal)
		})
	}
}

// TestPriceQuote_Priced tests which prices count as usable.
func TestPriceQuote_Priced(t *testing.T) {
	assert.True(t, model.PriceQuote{Price: decimal.NewNullDecimal(dec("0.01"))}.Priced())
	assert.False(t, model.PriceQuote{Price: decimal.NewNullDecimal(decimal.Zero)}.Priced())
	assert.False(t, model.PriceQuote{Price: decimal.NewNullDecimal(dec("-1"))}.Priced())
	assert.False(t, model.PriceQuote{}.Priced())
}
