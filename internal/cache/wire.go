package cache

import (
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Decimals travel as strings so no precision is lost; an empty string is null.

type entryWire struct {
	Rows    []rowWire   `msgpack:"rows"`
	Summary summaryWire `msgpack:"summary"`
}

type rowWire struct {
	AssetID          string                    `msgpack:"asset_id"`
	AccountID        string                    `msgpack:"account_id"`
	AccountIDs       []string                  `msgpack:"account_ids"`
	AccountName      string                    `msgpack:"account_name"`
	Symbol           string                    `msgpack:"symbol"`
	AssetName        string                    `msgpack:"asset_name"`
	AssetType        string                    `msgpack:"asset_type"`
	VolatilityBucket string                    `msgpack:"volatility_bucket"`
	Quantity         string                    `msgpack:"quantity"`
	CostBasis        string                    `msgpack:"cost_basis"`
	CostBasisKnown   bool                      `msgpack:"cost_basis_known"`
	CostBasisStatus  string                    `msgpack:"cost_basis_status"`
	Diagnostic       *model.TransferDiagnostic `msgpack:"diagnostic"`
	Price            string                    `msgpack:"price"`
	PriceSource      string                    `msgpack:"price_source"`
	PriceUpdatedAt   *time.Time                `msgpack:"price_updated_at"`
	IsManual         bool                      `msgpack:"is_manual"`
	IsStale          bool                      `msgpack:"is_stale"`
	MarketValue      string                    `msgpack:"market_value"`
	AverageCost      string                    `msgpack:"average_cost"`
	UnrealizedPnL    string                    `msgpack:"unrealized_pnl"`
	UnrealizedPnLPct string                    `msgpack:"unrealized_pnl_pct"`
}

type summaryWire struct {
	BaseCurrency          string            `msgpack:"base_currency"`
	RowCount              int               `msgpack:"row_count"`
	TotalValue            string            `msgpack:"total_value"`
	TotalCostBasis        string            `msgpack:"total_cost_basis"`
	TotalUnrealizedPnL    string            `msgpack:"total_unrealized_pnl"`
	ByType                map[string]string `msgpack:"by_type"`
	ByVolatility          map[string]string `msgpack:"by_volatility"`
	UnpricedCount         int               `msgpack:"unpriced_count"`
	StalePriceCount       int               `msgpack:"stale_price_count"`
	UnknownCostBasisCount int               `msgpack:"unknown_cost_basis_count"`
	LatestAutoPriceAt     *time.Time        `msgpack:"latest_auto_price_at"`
	LatestManualPriceAt   *time.Time        `msgpack:"latest_manual_price_at"`
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseNull(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func toWire(e Entry) entryWire {
	rows := make([]rowWire, 0, len(e.Rows))
	for _, r := range e.Rows {
		rows = append(rows, rowWire{
			AssetID:          r.AssetID,
			AccountID:        r.AccountID,
			AccountIDs:       r.AccountIDs,
			AccountName:      r.AccountName,
			Symbol:           r.Symbol,
			AssetName:        r.AssetName,
			AssetType:        string(r.AssetType),
			VolatilityBucket: string(r.VolatilityBucket),
			Quantity:         r.Quantity.String(),
			CostBasis:        r.CostBasis.String(),
			CostBasisKnown:   r.CostBasisKnown,
			CostBasisStatus:  string(r.CostBasisStatus),
			Diagnostic:       r.TransferDiagnostic,
			Price:            nullString(r.Price),
			PriceSource:      string(r.PriceSource),
			PriceUpdatedAt:   r.PriceUpdatedAt,
			IsManual:         r.IsManual,
			IsStale:          r.IsStale,
			MarketValue:      nullString(r.MarketValue),
			AverageCost:      nullString(r.AverageCost),
			UnrealizedPnL:    nullString(r.UnrealizedPnL),
			UnrealizedPnLPct: nullString(r.UnrealizedPnLPct),
		})
	}

	s := e.Summary
	byType := make(map[string]string, len(s.ByType))
	for k, v := range s.ByType {
		byType[string(k)] = v.String()
	}
	byVol := make(map[string]string, len(s.ByVolatility))
	for k, v := range s.ByVolatility {
		byVol[string(k)] = v.String()
	}

	return entryWire{
		Rows: rows,
		Summary: summaryWire{
			BaseCurrency:          s.BaseCurrency,
			RowCount:              s.RowCount,
			TotalValue:            s.TotalValue.String(),
			TotalCostBasis:        nullString(s.TotalCostBasis),
			TotalUnrealizedPnL:    nullString(s.TotalUnrealizedPnL),
			ByType:                byType,
			ByVolatility:          byVol,
			UnpricedCount:         s.UnpricedCount,
			StalePriceCount:       s.StalePriceCount,
			UnknownCostBasisCount: s.UnknownCostBasisCount,
			LatestAutoPriceAt:     s.LatestAutoPriceAt,
			LatestManualPriceAt:   s.LatestManualPriceAt,
		},
	}
}

// decoder collects the first parse error so conversions stay linear.
type decoder struct {
	err error
}

func (d *decoder) dec(field, s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func (d *decoder) null(field, s string) decimal.NullDecimal {
	v, err := parseNull(s)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func fromWire(w entryWire) (*Entry, error) {
	var d decoder

	rows := make([]model.HoldingRow, 0, len(w.Rows))
	for _, r := range w.Rows {
		rows = append(rows, model.HoldingRow{
			AssetID:            r.AssetID,
			AccountID:          r.AccountID,
			AccountIDs:         r.AccountIDs,
			AccountName:        r.AccountName,
			Symbol:             r.Symbol,
			AssetName:          r.AssetName,
			AssetType:          model.AssetType(r.AssetType),
			VolatilityBucket:   model.VolatilityBucket(r.VolatilityBucket),
			Quantity:           d.dec("quantity", r.Quantity),
			CostBasis:          d.dec("cost_basis", r.CostBasis),
			CostBasisKnown:     r.CostBasisKnown,
			CostBasisStatus:    model.CostBasisStatus(r.CostBasisStatus),
			TransferDiagnostic: r.Diagnostic,
			Price:              d.null("price", r.Price),
			PriceSource:        model.PriceSource(r.PriceSource),
			PriceUpdatedAt:     r.PriceUpdatedAt,
			IsManual:           r.IsManual,
			IsStale:            r.IsStale,
			MarketValue:        d.null("market_value", r.MarketValue),
			AverageCost:        d.null("average_cost", r.AverageCost),
			UnrealizedPnL:      d.null("unrealized_pnl", r.UnrealizedPnL),
			UnrealizedPnLPct:   d.null("unrealized_pnl_pct", r.UnrealizedPnLPct),
		})
	}

	s := w.Summary
	byType := make(map[model.AssetType]decimal.Decimal, len(s.ByType))
	for k, v := range s.ByType {
		byType[model.AssetType(k)] = d.dec("by_type", v)
	}
	byVol := make(map[model.VolatilityBucket]decimal.Decimal, len(s.ByVolatility))
	for k, v := range s.ByVolatility {
		byVol[model.VolatilityBucket(k)] = d.dec("by_volatility", v)
	}

	entry := &Entry{
		Rows: rows,
		Summary: model.HoldingsSummary{
			BaseCurrency:          s.BaseCurrency,
			RowCount:              s.RowCount,
			TotalValue:            d.dec("total_value", s.TotalValue),
			TotalCostBasis:        d.null("total_cost_basis", s.TotalCostBasis),
			TotalUnrealizedPnL:    d.null("total_unrealized_pnl", s.TotalUnrealizedPnL),
			ByType:                byType,
			ByVolatility:          byVol,
			UnpricedCount:         s.UnpricedCount,
			StalePriceCount:       s.StalePriceCount,
			UnknownCostBasisCount: s.UnknownCostBasisCount,
			LatestAutoPriceAt:     s.LatestAutoPriceAt,
			LatestManualPriceAt:   s.LatestManualPriceAt,
		},
	}
	if d.err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", d.err)
	}
	return entry, nil
}
