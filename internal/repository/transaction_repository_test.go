package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransactionRepository_Order tests that transactions come back in replay
// order: by date_time, then by id for identical timestamps.
func TestTransactionRepository_Order(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	account := testutil.CreateAccount(t, db, "Exchange")
	btc := testutil.CreateAsset(t, db, "BTC")

	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	testutil.NewTransaction(account.ID, btc.ID, model.TxTrade, "1").WithID("c").At(t0.Add(time.Second)).Build(t, db)
	testutil.NewTransaction(account.ID, btc.ID, model.TxTrade, "1").WithID("b").At(t0).Build(t, db)
	testutil.NewTransaction(account.ID, btc.ID, model.TxTrade, "1").WithID("a").At(t0).Build(t, db)
	testutil.NewTransaction(account.ID, btc.ID, model.TxTrade, "1").WithID("d").At(t0.Add(-time.Nanosecond)).Build(t, db)

	txs, err := repo.GetTransactions(ctx, model.TransactionFilter{})
	require.NoError(t, err)

	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
}

// TestTransactionRepository_RoundTrip tests that decimals keep full precision
// and that absent optional values stay absent.
func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	account := testutil.CreateAccount(t, db, "Wallet")
	eth := testutil.CreateAsset(t, db, "ETH")

	created := testutil.NewTransaction(account.ID, eth.ID, model.TxTransfer, "-0.123456789012345678").
		WithUnitPrice("3000.000000001").
		WithReference("0xabc").
		Build(t, db)

	got, err := repo.GetTransaction(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "-0.123456789012345678", got.Quantity.String())
	assert.True(t, got.UnitPriceInBase.Valid)
	assert.True(t, decimal.RequireFromString("3000.000000001").Equal(got.UnitPriceInBase.Decimal))
	assert.False(t, got.TotalValueInBase.Valid)
	assert.False(t, got.FeeInBase.Valid)
	assert.Equal(t, model.TxTransfer, got.Type)
	assert.Equal(t, "0xabc", got.ExternalReference)
	assert.Equal(t, eth.Symbol, got.AssetSymbol)
	assert.Equal(t, account.Name, got.AccountName)
	assert.True(t, created.DateTime.Equal(got.DateTime))
}

func TestTransactionRepository_Filter(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	a1 := testutil.CreateAccount(t, db, "One")
	a2 := testutil.CreateAccount(t, db, "Two")
	btc := testutil.CreateAsset(t, db, "BTC")
	usdc := testutil.NewAsset().WithSymbol("USDC").Stablecoin().Build(t, db)

	testutil.NewTransaction(a1.ID, btc.ID, model.TxTrade, "1").Build(t, db)
	testutil.NewTransaction(a2.ID, btc.ID, model.TxDeposit, "2").Build(t, db)
	testutil.NewTransaction(a1.ID, usdc.ID, model.TxDeposit, "100").Build(t, db)

	tests := []struct {
		name   string
		filter model.TransactionFilter
		want   int
	}{
		{"no filter", model.TransactionFilter{}, 3},
		{"account", model.TransactionFilter{AccountIDs: []string{a1.ID}}, 2},
		{"asset", model.TransactionFilter{AssetIDs: []string{btc.ID}}, 2},
		{"type", model.TransactionFilter{Types: []model.TxType{model.TxDeposit}}, 2},
		{"asset type", model.TransactionFilter{AssetType: model.AssetStable}, 1},
		{"volatility", model.TransactionFilter{VolatilityBucket: model.VolatilityHigh}, 2},
		{"combined", model.TransactionFilter{AccountIDs: []string{a2.ID}, Types: []model.TxType{model.TxTrade}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := repo.GetTransactions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, txs, tt.want)
		})
	}
}

func TestTransactionRepository_InsertAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	account := testutil.CreateAccount(t, db, "Broker")
	asset := testutil.CreateAsset(t, db, "AAPL")

	t.Run("unknown asset is rejected", func(t *testing.T) {
		tx := model.Transaction{
			ID:        testutil.MakeID(),
			DateTime:  time.Now(),
			AccountID: account.ID,
			AssetID:   testutil.MakeID(),
			Quantity:  decimal.NewFromInt(1),
			Type:      model.TxTrade,
			CreatedAt: time.Now(),
		}
		assert.ErrorIs(t, repo.InsertTransaction(ctx, &tx), apperrors.ErrDataInconsistency)
	})

	t.Run("delete", func(t *testing.T) {
		tx := testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "5").Build(t, db)
		require.NoError(t, repo.DeleteTransaction(ctx, tx.ID))
		testutil.AssertRowCount(t, db, `"transaction"`, 0)
		assert.ErrorIs(t, repo.DeleteTransaction(ctx, tx.ID), apperrors.ErrTransactionNotFound)
	})

	t.Run("corrupt stored type", func(t *testing.T) {
		tx := testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "5").Build(t, db)
		_, err := db.Exec(`UPDATE "transaction" SET tx_type = 'BOGUS' WHERE id = ?`, tx.ID)
		require.NoError(t, err)

		_, err = repo.GetTransaction(ctx, tx.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransactionType)
	})
}
