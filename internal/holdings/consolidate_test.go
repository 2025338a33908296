package holdings

import (
	"testing"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConsolidateByAsset tests merging rows across accounts.
func TestConsolidateByAsset(t *testing.T) {
	t.Run("sums known rows", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: dec("30000"), Status: model.StatusKnown},
			{PositionKey: key("btc", "y"), Quantity: dec("0.5"), CostBasis: dec("10000"), Status: model.StatusKnown},
		}
		rows := BuildRows(positions, pricedAssets(), testAccounts, testOptions())

		out := ConsolidateByAsset(rows)

		require.Len(t, out, 1)
		row := out[0]
		assert.Empty(t, row.AccountID)
		assert.Empty(t, row.AccountName)
		assert.Equal(t, []string{"x", "y"}, row.AccountIDs)
		assertDecimal(t, "1.5", row.Quantity)
		assertDecimal(t, "40000", row.CostBasis)
		assertDecimal(t, "60000", row.MarketValue.Decimal)
		assertDecimal(t, "20000", row.UnrealizedPnL.Decimal)
		assert.True(t, row.CostBasisKnown)
		assert.Equal(t, model.StatusKnown, row.CostBasisStatus)
	})

	t.Run("one unknown row makes the asset unknown", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: dec("30000"), Status: model.StatusKnown},
			{PositionKey: key("btc", "y"), Quantity: dec("1"), Status: model.StatusUnknown},
		}

		row := ConsolidateByAsset(BuildRows(positions, pricedAssets(), testAccounts, testOptions()))[0]

		assert.False(t, row.CostBasisKnown)
		assert.Equal(t, model.StatusUnknown, row.CostBasisStatus)
		assert.False(t, row.UnrealizedPnL.Valid)
		assertDecimal(t, "80000", row.MarketValue.Decimal)
	})

	t.Run("transfer status wins over unknown", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), Status: model.StatusUnknown},
			{
				PositionKey: key("btc", "y"), Quantity: dec("1"), Status: model.StatusTransferUnmatched,
				Diagnostic: &model.TransferDiagnostic{Key: "k1", TransactionIDs: []string{"t1"}},
			},
			{
				PositionKey: key("btc", "z"), Quantity: dec("1"), Status: model.StatusTransferUnmatched,
				Diagnostic: &model.TransferDiagnostic{Key: "k2", TransactionIDs: []string{"t2"}},
			},
		}

		row := ConsolidateByAsset(BuildRows(positions, pricedAssets(), testAccounts, testOptions()))[0]

		assert.Equal(t, model.StatusTransferUnmatched, row.CostBasisStatus)
		require.NotNil(t, row.TransferDiagnostic)
		assert.Equal(t, "k1, k2", row.TransferDiagnostic.Key)
		assert.Equal(t, []string{"t1", "t2"}, row.TransferDiagnostic.TransactionIDs)
	})

	t.Run("keeps the account of a single-account asset", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("eth", "x"), Quantity: dec("2"), CostBasis: dec("4000"), Status: model.StatusKnown},
			{PositionKey: key("btc", "y"), Quantity: dec("1"), CostBasis: dec("1"), Status: model.StatusKnown},
		}

		out := ConsolidateByAsset(BuildRows(positions, pricedAssets(), testAccounts, testOptions()))

		require.Len(t, out, 2)
		assert.Equal(t, "y", out[0].AccountID)
		assert.Equal(t, "x", out[1].AccountID)
		assert.Equal(t, "Exchange", out[1].AccountName)
	})

	t.Run("is idempotent", func(t *testing.T) {
		positions := []model.Position{
			{PositionKey: key("btc", "x"), Quantity: dec("1"), CostBasis: dec("30000"), Status: model.StatusKnown},
			{
				PositionKey: key("btc", "y"), Quantity: dec("2"), Status: model.StatusTransferAmbiguous,
				Diagnostic: &model.TransferDiagnostic{Key: "k", TransactionIDs: []string{"b", "a", "c"}},
			},
			{PositionKey: key("usdc", "x"), Quantity: dec("10"), CostBasis: dec("10"), Status: model.StatusKnown},
		}
		once := ConsolidateByAsset(BuildRows(positions, pricedAssets(), testAccounts, testOptions()))

		for _, row := range once {
			twice := ConsolidateByAsset([]model.HoldingRow{row})
			require.Len(t, twice, 1)
			got := twice[0]

			assert.Equal(t, row.AccountID, got.AccountID)
			assert.Equal(t, row.AccountIDs, got.AccountIDs)
			assert.True(t, row.Quantity.Equal(got.Quantity))
			assert.True(t, row.CostBasis.Equal(got.CostBasis))
			assert.Equal(t, row.CostBasisKnown, got.CostBasisKnown)
			assert.Equal(t, row.CostBasisStatus, got.CostBasisStatus)
			assert.Equal(t, row.TransferDiagnostic, got.TransferDiagnostic)
			assert.Equal(t, row.MarketValue.Valid, got.MarketValue.Valid)
			assert.True(t, row.MarketValue.Decimal.Equal(got.MarketValue.Decimal))
			assert.Equal(t, row.UnrealizedPnL.Valid, got.UnrealizedPnL.Valid)
		}
	})
}

// TestMergeStatus tests the status priority order.
func TestMergeStatus(t *testing.T) {
	order := []model.CostBasisStatus{
		model.StatusKnown,
		model.StatusUnknown,
		model.StatusTransferUnmatched,
		model.StatusTransferAmbiguous,
		model.StatusTransferInvalid,
	}

	for i, a := range order {
		for j, b := range order {
			want := a
			if j > i {
				want = b
			}
			assert.Equal(t, want, MergeStatus(a, b), "%s + %s", a, b)
			assert.Equal(t, want, MergeStatus(b, a), "%s + %s", b, a)
		}
	}
	assert.Equal(t, model.StatusUnknown, MergeStatus("", model.StatusUnknown))
}
