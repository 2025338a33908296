package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))

	account := testutil.CreateAccount(t, db, testutil.MakeAccountName("Main"))
	asset := testutil.NewAsset().WithManualPrice("10").Build(t, db)
	testutil.NewTransaction(account.ID, asset.ID, model.TxTrade, "3").WithTotal("21").Build(t, db)

	t.Run("latest returns 404 before any snapshot", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.LatestSnapshot(w, httptest.NewRequest(http.MethodGet, "/api/snapshots/latest", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("takes snapshots", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.TakeSnapshot(w, httptest.NewRequest(http.MethodPost, "/api/snapshots", nil))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var snapshots []model.HoldingsSnapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&snapshots))
		require.Len(t, snapshots, 2)
		assert.Empty(t, snapshots[0].AccountID)
		assert.Equal(t, account.ID, snapshots[1].AccountID)
	})

	t.Run("latest returns the account snapshot", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/snapshots/latest", map[string]string{"account_id": account.ID})
		w := httptest.NewRecorder()
		handler.LatestSnapshot(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var snapshot model.HoldingsSnapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&snapshot))
		assert.Equal(t, "30", snapshot.Summary.TotalValue.String())
	})

	t.Run("history lists portfolio-wide snapshots", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.SnapshotHistory(w, httptest.NewRequest(http.MethodGet, "/api/snapshots", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var history []model.HoldingsSnapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
		assert.Len(t, history, 1)
	})

	t.Run("start after end is a bad request", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/snapshots", map[string]string{
			"start": "2024-02-01",
			"end":   "2024-01-01",
		})
		w := httptest.NewRecorder()
		handler.SnapshotHistory(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed account id is a bad request", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/snapshots/latest", map[string]string{"account_id": "abc"})
		w := httptest.NewRecorder()
		handler.LatestSnapshot(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
