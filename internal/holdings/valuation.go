package holdings

import (
	"slices"
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildRows values every non-empty position against its resolved price.
// Dust positions produce no row. Rows are ordered by symbol then account.
func BuildRows(
	positions []model.Position,
	assets map[string]model.Asset,
	accounts map[string]model.Account,
	opts Options,
) []model.HoldingRow {
	now := opts.now()
	interval := opts.refreshInterval()

	rows := make([]model.HoldingRow, 0, len(positions))
	for _, p := range positions {
		if IsDust(p.Quantity) {
			continue
		}
		asset := assets[p.AssetID]
		quote := ResolvePrice(asset, interval, now)

		row := model.HoldingRow{
			AssetID:          p.AssetID,
			AccountID:        p.AccountID,
			AccountIDs:       []string{p.AccountID},
			AccountName:      accounts[p.AccountID].Name,
			Symbol:           asset.Symbol,
			AssetName:        asset.Name,
			AssetType:        asset.Type,
			VolatilityBucket: asset.VolatilityBucket,
			Quantity:         p.Quantity,
			CostBasis:        p.CostBasis,
			CostBasisKnown:   p.CostBasisKnown(),
			CostBasisStatus:  p.Status,
			Price:            quote.Price,
			PriceSource:      quote.Source,
			PriceUpdatedAt:   quote.LastUpdated,
			IsManual:         quote.IsManual,
			IsStale:          quote.IsStale,
		}
		if p.Diagnostic != nil {
			row.TransferDiagnostic = mergeDiagnostics(p.Diagnostic)
		}
		if quote.Priced() {
			row.MarketValue = decimal.NewNullDecimal(p.Quantity.Mul(quote.Price.Decimal))
		}
		deriveValuation(&row)
		rows = append(rows, row)
	}

	sortRows(rows)
	return rows
}

// deriveValuation fills average cost and unrealized P&L from quantity, cost
// basis and market value.
func deriveValuation(row *model.HoldingRow) {
	row.AverageCost = decimal.NullDecimal{}
	row.UnrealizedPnL = decimal.NullDecimal{}
	row.UnrealizedPnLPct = decimal.NullDecimal{}

	if !row.CostBasisKnown {
		return
	}
	if !IsDust(row.Quantity) {
		row.AverageCost = decimal.NewNullDecimal(row.CostBasis.Div(row.Quantity.Abs()))
	}
	if !row.MarketValue.Valid {
		return
	}
	pnl := row.MarketValue.Decimal.Sub(row.CostBasis)
	row.UnrealizedPnL = decimal.NewNullDecimal(pnl)
	if !row.CostBasis.IsZero() {
		row.UnrealizedPnLPct = decimal.NewNullDecimal(pnl.Mul(hundred).Div(row.CostBasis))
	}
}

func sortRows(rows []model.HoldingRow) {
	slices.SortStableFunc(rows, func(a, b model.HoldingRow) int {
		if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		if c := strings.Compare(a.AssetID, b.AssetID); c != 0 {
			return c
		}
		return strings.Compare(a.AccountID, b.AccountID)
	})
}

// Summarize aggregates rows into fleet totals.
//
// Market value is only summed over priced rows. TotalCostBasis and
// TotalUnrealizedPnL are partial sums over the rows where the field is known;
// they are null only when rows exist and none of them contributes.
func Summarize(rows []model.HoldingRow, baseCurrency string) model.HoldingsSummary {
	summary := model.HoldingsSummary{
		BaseCurrency: baseCurrency,
		RowCount:     len(rows),
		TotalValue:   decimal.Zero,
		ByType:       make(map[model.AssetType]decimal.Decimal),
		ByVolatility: make(map[model.VolatilityBucket]decimal.Decimal),
	}

	costBasis, pnl := decimal.Zero, decimal.Zero
	costRows, pnlRows := 0, 0

	for _, row := range rows {
		if row.MarketValue.Valid {
			mv := row.MarketValue.Decimal
			summary.TotalValue = summary.TotalValue.Add(mv)
			summary.ByType[row.AssetType] = summary.ByType[row.AssetType].Add(mv)
			summary.ByVolatility[row.VolatilityBucket] = summary.ByVolatility[row.VolatilityBucket].Add(mv)
		} else {
			summary.UnpricedCount++
		}
		if row.IsStale {
			summary.StalePriceCount++
		}
		if row.CostBasisKnown {
			costBasis = costBasis.Add(row.CostBasis)
			costRows++
		} else {
			summary.UnknownCostBasisCount++
		}
		if row.UnrealizedPnL.Valid {
			pnl = pnl.Add(row.UnrealizedPnL.Decimal)
			pnlRows++
		}
		if row.PriceUpdatedAt != nil {
			latest := &summary.LatestAutoPriceAt
			if row.IsManual {
				latest = &summary.LatestManualPriceAt
			}
			if *latest == nil || row.PriceUpdatedAt.After(**latest) {
				t := *row.PriceUpdatedAt
				*latest = &t
			}
		}
	}

	if costRows > 0 || len(rows) == 0 {
		summary.TotalCostBasis = decimal.NewNullDecimal(costBasis)
	}
	if pnlRows > 0 || len(rows) == 0 {
		summary.TotalUnrealizedPnL = decimal.NewNullDecimal(pnl)
	}
	return summary
}

// Compute replays the log, values the positions and summarizes the rows.
func Compute(
	txs []model.Transaction,
	assets map[string]model.Asset,
	accounts map[string]model.Account,
	opts Options,
) ([]model.HoldingRow, model.HoldingsSummary, *Ledger) {
	ledger := Replay(txs, assets, opts)
	rows := BuildRows(ledger.Positions(), assets, accounts, opts)
	return rows, Summarize(rows, opts.BaseCurrency), ledger
}
