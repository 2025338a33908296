package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewTransactionHandler(testutil.NewTestTransactionService(t, db)), db
}

func TestTransactionHandler_Transactions(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		w := httptest.NewRecorder()
		handler.Transactions(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("returns transactions in replay order with names", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))
		day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		later := testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "-1").At(day.Add(time.Hour)).Build(t, db)
		earlier := testutil.NewTransaction(account.ID, asset.ID, model.TxDeposit, "2").At(day).Build(t, db)

		w := httptest.NewRecorder()
		handler.Transactions(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var response []model.TransactionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 2)
		assert.Equal(t, earlier.ID, response[0].ID)
		assert.Equal(t, later.ID, response[1].ID)
		assert.Equal(t, asset.Symbol, response[0].AssetSymbol)
		assert.Equal(t, account.Name, response[0].AccountName)
	})

	t.Run("filters by type", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))
		testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "1").Build(t, db)
		deposit := testutil.NewTransaction(account.ID, asset.ID, model.TxDeposit, "2").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions", map[string]string{"type": "deposit"})
		w := httptest.NewRecorder()
		handler.Transactions(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var response []model.TransactionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, deposit.ID, response[0].ID)
	})

	t.Run("unknown type is a bad request", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions", map[string]string{"type": "AIRDROP"})
		w := httptest.NewRecorder()
		handler.Transactions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))
		tx := testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "1").WithTotal("3000").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var response model.TransactionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, tx.ID, response.ID)
		assert.Equal(t, "3000", response.TotalValueInBase.Decimal.String())
	})

	t.Run("returns 404 for a missing transaction", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestTransactionHandler_CreateTransaction tests appending ledger entries.
func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("creates a transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", request.CreateTransactionRequest{
			DateTime:  "2024-03-01T12:00:00Z",
			AccountID: account.ID,
			AssetID:   asset.ID,
			Quantity:  "1.5",
			Type:      "trade",
		}, nil)
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created model.Transaction
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, model.TxTrade, created.Type)
		assert.False(t, created.TotalValueInBase.Valid)
		testutil.AssertRowCount(t, db, `"transaction"`, 1)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", request.CreateTransactionRequest{
			AccountID: testutil.MakeID(),
			AssetID:   testutil.MakeID(),
		}, nil)
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "quantity")
		testutil.AssertRowCount(t, db, `"transaction"`, 0)
	})

	t.Run("unknown account returns 404", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", request.CreateTransactionRequest{
			DateTime:  "2024-03-01",
			AccountID: testutil.MakeID(),
			AssetID:   asset.ID,
			Quantity:  "1",
			Type:      "DEPOSIT",
		}, nil)
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid JSON is a bad request", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", map[string]any{"quantity": 1}, nil)
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("deletes the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
		asset := testutil.CreateAsset(t, db, testutil.MakeSymbol("ETH"))
		tx := testutil.NewTransaction(account.ID, asset.ID, model.TxDeposit, "1").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transactions/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.DeleteTransaction(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		testutil.AssertRowCount(t, db, `"transaction"`, 0)
	})

	t.Run("returns 404 for a missing transaction", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transactions/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.DeleteTransaction(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
