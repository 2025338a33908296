package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// HoldingsMarkdown renders rows and their summary as a markdown document.
func HoldingsMarkdown(title string, rows []model.HoldingRow, summary model.HoldingsSummary) string {
	cur := summary.BaseCurrency
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintln(&b, "| Asset | Account | Quantity | Price | Value | Cost Basis | Unrealized P&L | Status |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|:---|")

	for _, row := range rows {
		account := row.AccountName
		if row.AccountID == "" {
			account = fmt.Sprintf("%d accounts", len(row.AccountIDs))
		}
		price := FormatNullMoney(row.Price, cur)
		if row.IsStale && row.Price.Valid {
			price += " (stale)"
		}
		basis := "unknown"
		if row.CostBasisKnown {
			basis = FormatMoney(row.CostBasis, cur)
		}
		pnl := FormatNullMoney(row.UnrealizedPnL, cur)
		if row.UnrealizedPnLPct.Valid {
			pnl += " " + FormatPercent(row.UnrealizedPnLPct)
		}

		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Symbol,
			account,
			row.Quantity.String(),
			price,
			FormatNullMoney(row.MarketValue, cur),
			basis,
			pnl,
			row.CostBasisStatus,
		)
	}

	b.WriteString("\n")
	b.WriteString(SummaryMarkdown(summary))
	return b.String()
}

// SummaryMarkdown renders totals and per-type and per-volatility breakdowns.
func SummaryMarkdown(summary model.HoldingsSummary) string {
	cur := summary.BaseCurrency
	var b strings.Builder

	fmt.Fprintln(&b, "## Summary")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- **Total value:** %s\n", FormatMoney(summary.TotalValue, cur))
	fmt.Fprintf(&b, "- **Cost basis (known rows):** %s\n", FormatNullMoney(summary.TotalCostBasis, cur))
	fmt.Fprintf(&b, "- **Unrealized P&L (known rows):** %s\n", FormatNullMoney(summary.TotalUnrealizedPnL, cur))
	fmt.Fprintf(&b, "- **Positions:** %d (%d unpriced, %d stale, %d unknown cost basis)\n",
		summary.RowCount, summary.UnpricedCount, summary.StalePriceCount, summary.UnknownCostBasisCount)

	if len(summary.ByType) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Type | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		writeBreakdown(&b, summary.ByType, cur)
	}
	if len(summary.ByVolatility) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Volatility | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		writeBreakdown(&b, summary.ByVolatility, cur)
	}
	return b.String()
}

func writeBreakdown[K ~string](b *strings.Builder, values map[K]decimal.Decimal, cur string) {
	keys := make([]K, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "| %s | %s |\n", k, FormatMoney(values[k], cur))
	}
}
