package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseJSON tests request body decoding.
// This is an internal test (package handlers, not handlers_test) because
// parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Main","description":"spot"}`))

		got, err := parseJSON[request.CreateAccountRequest](req)
		require.NoError(t, err)
		assert.Equal(t, "Main", got.Name)
		assert.Equal(t, "spot", got.Description)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nmae":"Main"}`))

		_, err := parseJSON[request.CreateAccountRequest](req)
		assert.Error(t, err)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		_, err := parseJSON[request.CreateAccountRequest](req)
		assert.ErrorIs(t, err, errEmptyBody)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		_, err := parseJSON[request.CreateAccountRequest](req)
		assert.Error(t, err)
	})
}

func TestHoldingsFilterFromQuery(t *testing.T) {
	a, b := testutil.MakeID(), testutil.MakeID()

	t.Run("reads repeated and comma separated ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/holdings?asset_id="+a+","+b+"&account_id="+a+"&asset_type=crypto&volatility=high", nil)

		filter, err := holdingsFilterFromQuery(req)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, filter.AssetIDs)
		assert.Equal(t, []string{a}, filter.AccountIDs)
		assert.Equal(t, model.AssetCrypto, filter.AssetType)
		assert.Equal(t, model.VolatilityHigh, filter.VolatilityBucket)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/holdings?account_id=nope", nil)

		_, err := holdingsFilterFromQuery(req)
		assert.Error(t, err)
	})

	t.Run("empty query is an empty filter", func(t *testing.T) {
		filter, err := holdingsFilterFromQuery(httptest.NewRequest(http.MethodGet, "/api/holdings", nil))
		require.NoError(t, err)
		assert.Equal(t, model.HoldingsFilter{}, filter)
	})
}

func TestQueryBool(t *testing.T) {
	got, err := queryBool(httptest.NewRequest(http.MethodGet, "/?consolidated=true", nil), "consolidated")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = queryBool(httptest.NewRequest(http.MethodGet, "/", nil), "consolidated")
	require.NoError(t, err)
	assert.False(t, got)

	_, err = queryBool(httptest.NewRequest(http.MethodGet, "/?consolidated=maybe", nil), "consolidated")
	assert.Error(t, err)
}
