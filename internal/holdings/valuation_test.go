package holdings

import (
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedAssets() map[string]model.Asset {
	fresh := baseTime.Add(-time.Minute)
	manualAt := baseTime.Add(-10 * time.Minute)
	assets := map[string]model.Asset{}
	for id, a := range testAssets {
		assets[id] = a
	}
	btc := assets["btc"]
	btc.LatestPrice = &model.PriceRecord{AssetID: "btc", PriceInBase: dec("40000"), Source: "coingecko", LastUpdated: fresh}
	assets["btc"] = btc

	eth := assets["eth"]
	eth.PricingMode = model.PricingManual
	eth.ManualPrice = decimal.NewNullDecimal(dec("3000"))
	eth.ManualPriceUpdatedAt = &manualAt
	assets["eth"] = eth

	usdc := assets["usdc"]
	usdc.LatestPrice = &model.PriceRecord{AssetID: "usdc", PriceInBase: dec("1"), Source: "coingecko", LastUpdated: baseTime.Add(-24 * time.Hour)}
	assets["usdc"] = usdc
	return assets
}

var testAccounts = map[string]model.Account{
	"x": {ID: "x", Name: "Exchange"},
	"y": {ID: "y", Name: "Cold Wallet"},
}

func testOptions() Options {
	return Options{
		RefreshInterval: 15 * time.Minute,
		Now:             func() time.Time { return baseTime },
		BaseCurrency:    "USD",
	}
}

// TestBuildRows tests valuation of replayed positions.
func TestBuildRows(t *testing.T) {
	t.Run("values a known, priced position", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("2"), CostBasis: dec("60000"), Status: model.StatusKnown},
		}

		rows := BuildRows(positions, pricedAssets(), testAccounts, testOptions())
		require.Len(t, rows, 1)
		row := rows[0]

		assert.Equal(t, "BTC", row.Symbol)
		assert.Equal(t, "Exchange", row.AccountName)
		assert.Equal(t, []string{"x"}, row.AccountIDs)
		assert.Equal(t, model.PriceSourceAuto, row.PriceSource)
		assert.False(t, row.IsStale)
		assertDecimal(t, "80000", row.MarketValue.Decimal)
		assertDecimal(t, "30000", row.AverageCost.Decimal)
		assertDecimal(t, "20000", row.UnrealizedPnL.Decimal)
		assertDecimal(t, "33.3333", row.UnrealizedPnLPct.Decimal.Round(4))
	})

	t.Run("unknown basis leaves average cost and pnl null", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: dec("10"), Status: model.StatusUnknown},
		}

		row := BuildRows(positions, pricedAssets(), testAccounts, testOptions())[0]

		assert.True(t, row.MarketValue.Valid)
		assert.False(t, row.CostBasisKnown)
		assert.False(t, row.AverageCost.Valid)
		assert.False(t, row.UnrealizedPnL.Valid)
		assert.False(t, row.UnrealizedPnLPct.Valid)
	})

	t.Run("unpriced position has null market value", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("sol", "x"), Quantity: dec("3"), CostBasis: dec("300"), Status: model.StatusKnown},
		}

		row := BuildRows(positions, pricedAssets(), testAccounts, testOptions())[0]

		assert.False(t, row.MarketValue.Valid)
		assert.False(t, row.UnrealizedPnL.Valid)
		assertDecimal(t, "100", row.AverageCost.Decimal)
		assert.Equal(t, model.PriceSourceNone, row.PriceSource)
		assert.True(t, row.IsStale)
	})

	t.Run("zero cost basis leaves pct null", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: decimal.Zero, Status: model.StatusKnown},
		}

		row := BuildRows(positions, pricedAssets(), testAccounts, testOptions())[0]

		assertDecimal(t, "40000", row.UnrealizedPnL.Decimal)
		assert.False(t, row.UnrealizedPnLPct.Valid)
	})

	t.Run("skips dust and sorts by symbol then account", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("usdc", "x"), Quantity: dec("5"), CostBasis: dec("5"), Status: model.StatusKnown},
			{PositionKey: key("btc", "y"), Quantity: dec("1"), CostBasis: dec("1"), Status: model.StatusKnown},
			{PositionKey: key("btc", "x"), Quantity: dec("0.0000000001"), CostBasis: dec("1"), Status: model.StatusKnown},
			{PositionKey: key("eth", "x"), Quantity: dec("1"), CostBasis: dec("1"), Status: model.StatusKnown},
		}

		rows := BuildRows(positions, pricedAssets(), testAccounts, testOptions())

		require.Len(t, rows, 3)
		assert.Equal(t, "BTC", rows[0].Symbol)
		assert.Equal(t, "y", rows[0].AccountID)
		assert.Equal(t, "ETH", rows[1].Symbol)
		assert.True(t, rows[1].IsManual)
		assert.Equal(t, "USDC", rows[2].Symbol)
		assert.True(t, rows[2].IsStale)
	})

	t.Run("carries the transfer diagnostic", func(t *testing.T) {
		diag := &model.TransferDiagnostic{Key: "k", TransactionIDs: []string{"b", "a"}}
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), Status: model.StatusTransferAmbiguous, Diagnostic: diag},
		}

		row := BuildRows(positions, pricedAssets(), testAccounts, testOptions())[0]

		assert.Equal(t, model.StatusTransferAmbiguous, row.CostBasisStatus)
		require.NotNil(t, row.TransferDiagnostic)
		assert.Equal(t, []string{"a", "b"}, row.TransferDiagnostic.TransactionIDs)
	})
}

// TestSummarize tests fleet totals.
func TestSummarize(t *testing.T) {
	t.Run("partial sums over known rows", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: dec("30000"), Status: model.StatusKnown},
			{PositionKey: key("eth", "y"), Quantity: dec("2"), CostBasis: dec("1"), Status: model.StatusUnknown},
			{PositionKey: key("sol", "x"), Quantity: dec("10"), CostBasis: dec("500"), Status: model.StatusKnown},
			{PositionKey: key("usdc", "x"), Quantity: dec("100"), CostBasis: dec("100"), Status: model.StatusKnown},
		}
		rows := BuildRows(positions, pricedAssets(), testAccounts, testOptions())

		s := Summarize(rows, "USD")

		assert.Equal(t, "USD", s.BaseCurrency)
		assert.Equal(t, 4, s.RowCount)
		assertDecimal(t, "46100", s.TotalValue)
		assertDecimal(t, "30600", s.TotalCostBasis.Decimal)
		// btc +10000, usdc 0; sol is unpriced and eth unknown.
		assertDecimal(t, "10000", s.TotalUnrealizedPnL.Decimal)
		assertDecimal(t, "46000", s.ByType[model.AssetCrypto])
		assertDecimal(t, "100", s.ByType[model.AssetStable])
		assertDecimal(t, "46000", s.ByVolatility[model.VolatilityHigh])
		assertDecimal(t, "100", s.ByVolatility[model.VolatilityCashLike])
		assert.Equal(t, 1, s.UnpricedCount)
		assert.Equal(t, 2, s.StalePriceCount)
		assert.Equal(t, 1, s.UnknownCostBasisCount)
		require.NotNil(t, s.LatestAutoPriceAt)
		assert.True(t, s.LatestAutoPriceAt.Equal(baseTime.Add(-time.Minute)))
		require.NotNil(t, s.LatestManualPriceAt)
		assert.True(t, s.LatestManualPriceAt.Equal(baseTime.Add(-time.Hour)))
	})

	t.Run("all unknown rows give null cost totals", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), Status: model.StatusUnknown},
		}
		s := Summarize(BuildRows(positions, pricedAssets(), testAccounts, testOptions()), "EUR")

		assert.False(t, s.TotalCostBasis.Valid)
		assert.False(t, s.TotalUnrealizedPnL.Valid)
		assertDecimal(t, "40000", s.TotalValue)
	})

	t.Run("empty rows give zero totals", func(t *testing.T) {
		s := Summarize(nil, "USD")

		assert.True(t, s.TotalValue.IsZero())
		assert.True(t, s.TotalCostBasis.Valid)
		assert.True(t, s.TotalCostBasis.Decimal.IsZero())
		assert.Equal(t, 0, s.RowCount)
	})
}

// TestCompute tests the full pipeline on a small ledger.
func TestCompute(t *testing.T) {
	txs := []model.Transaction{
		newTx("x", "btc", model.TxTrade, "2").WithTotal("60000").Build(),
		newTx("x", "btc", model.TxTransfer, "-1").WithReference("MATCH:cold").Build(),
		newTx("y", "btc", model.TxTransfer, "1").WithReference("MATCH:cold").Build(),
		newTx("x", "usdc", model.TxDeposit, "500").Build(),
	}

	rows, summary, ledger := Compute(txs, pricedAssets(), testAccounts, testOptions())

	require.Len(t, rows, 3)
	assert.Equal(t, 4, ledger.Stats().Transactions)
	assertDecimal(t, "80500", summary.TotalValue)
	assertDecimal(t, "60500", summary.TotalCostBasis.Decimal)
	assert.Equal(t, "USD", summary.BaseCurrency)

	consolidated := ConsolidateByAsset(rows)
	require.Len(t, consolidated, 2)
	assertDecimal(t, "2", consolidated[0].Quantity)
	assertDecimal(t, "60000", consolidated[0].CostBasis)
	assert.Equal(t, []string{"x", "y"}, consolidated[0].AccountIDs)
}
