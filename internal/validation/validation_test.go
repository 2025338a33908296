package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

// fieldErrors unwraps a validation Error, failing the test if err is anything else.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var vErr *Error
	require.True(t, errors.As(err, &vErr), "expected *validation.Error, got %v", err)
	return vErr.Fields
}

func TestValidateUUIDs(t *testing.T) {
	assert.NoError(t, ValidateUUIDs([]string{uuid.New().String(), uuid.New().String()}))
	assert.ErrorIs(t, ValidateUUIDs(nil), ErrEmptySlice)
	assert.ErrorIs(t, ValidateUUIDs([]string{uuid.New().String(), "nope"}), ErrInvalidUUID)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 with zone", "2024-03-01T12:00:00+02:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"fractional seconds", "2024-03-01T12:00:00.5Z", time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)},
		{"no zone is utc", "2024-03-01T12:00:00", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"date only", " 2024-03-01 ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseDateTime("01/03/2024")
	assert.Error(t, err)
}

func TestParseOptionalDecimal(t *testing.T) {
	d, err := ParseOptionalDecimal(nil)
	require.NoError(t, err)
	assert.False(t, d.Valid)

	d, err = ParseOptionalDecimal(strPtr(" -1.25 "))
	require.NoError(t, err)
	assert.True(t, d.Valid)
	assert.Equal(t, "-1.25", d.Decimal.String())

	_, err = ParseOptionalDecimal(strPtr("1,5"))
	assert.Error(t, err)
}

func TestValidateCreateTransaction(t *testing.T) {
	valid := func() request.CreateTransactionRequest {
		return request.CreateTransactionRequest{
			DateTime:  "2024-01-01T00:00:00Z",
			AccountID: uuid.New().String(),
			AssetID:   uuid.New().String(),
			Quantity:  "-0.5",
			Type:      "trade",
		}
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid()
		req.TotalValueInBase = strPtr("100")
		req.FeeInBase = strPtr("0")
		assert.NoError(t, ValidateCreateTransaction(req))
	})

	t.Run("bad account id", func(t *testing.T) {
		req := valid()
		req.AccountID = "not-a-uuid"
		assert.ErrorIs(t, ValidateCreateTransaction(req), ErrInvalidUUID)
	})

	t.Run("collects field errors", func(t *testing.T) {
		req := valid()
		req.DateTime = ""
		req.Type = "AIRDROP"
		req.Quantity = "lots"
		req.UnitPriceInBase = strPtr("-1")
		req.FeeInBase = strPtr("x")

		fields := fieldErrors(t, ValidateCreateTransaction(req))
		assert.Equal(t, "dateTime is required", fields["dateTime"])
		assert.Contains(t, fields, "type")
		assert.Contains(t, fields, "quantity")
		assert.Equal(t, "unitPriceInBase cannot be negative", fields["unitPriceInBase"])
		assert.Contains(t, fields, "feeInBase")
		assert.NotContains(t, fields, "totalValueInBase")
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		req := valid()
		req.Quantity = "0"
		assert.NoError(t, ValidateCreateTransaction(req))
	})
}

func TestValidateCreateAsset(t *testing.T) {
	req := request.CreateAssetRequest{
		Symbol:           "BTC",
		Name:             "Bitcoin",
		Type:             "crypto",
		VolatilityBucket: "high",
	}
	assert.NoError(t, ValidateCreateAsset(req))

	req.PricingMode = "sometimes"
	req.ManualPrice = strPtr("0")
	req.Type = "BOND"
	fields := fieldErrors(t, ValidateCreateAsset(req))
	assert.Contains(t, fields, "pricingMode")
	assert.Equal(t, "manualPrice must be positive", fields["manualPrice"])
	assert.Equal(t, "invalid type: BOND", fields["type"])
	assert.NotContains(t, fields, "volatilityBucket")
}

func TestValidateSetManualPrice(t *testing.T) {
	assert.NoError(t, ValidateSetManualPrice(request.SetManualPriceRequest{PricingMode: "MANUAL", ManualPrice: strPtr("12.5")}))
	assert.NoError(t, ValidateSetManualPrice(request.SetManualPriceRequest{PricingMode: "auto"}))

	fields := fieldErrors(t, ValidateSetManualPrice(request.SetManualPriceRequest{PricingMode: "MANUAL"}))
	assert.Equal(t, "manualPrice is required in MANUAL mode", fields["manualPrice"])
}

func TestValidateRecordPrice(t *testing.T) {
	assert.NoError(t, ValidateRecordPrice(request.RecordPriceRequest{Price: "101.5", Source: "coingecko"}))

	fields := fieldErrors(t, ValidateRecordPrice(request.RecordPriceRequest{Price: "-3", LastUpdated: "yesterday"}))
	assert.Equal(t, "price must be positive", fields["price"])
	assert.Equal(t, "source is required", fields["source"])
	assert.Contains(t, fields, "lastUpdated")
}

func TestValidateUpdateSettings(t *testing.T) {
	assert.NoError(t, ValidateUpdateSettings(request.UpdateSettingsRequest{}))
	assert.NoError(t, ValidateUpdateSettings(request.UpdateSettingsRequest{
		PriceAutoRefreshIntervalMinutes: intPtr(5),
		BaseCurrency:                    strPtr("eur"),
	}))

	fields := fieldErrors(t, ValidateUpdateSettings(request.UpdateSettingsRequest{
		PriceAutoRefreshIntervalMinutes: intPtr(0),
		BaseCurrency:                    strPtr("ZZZ"),
	}))
	assert.Len(t, fields, 2)
	assert.Equal(t, "unknown currency: ZZZ", fields["baseCurrency"])
}

func TestValidateAccountRequests(t *testing.T) {
	assert.NoError(t, ValidateCreateAccount(request.CreateAccountRequest{Name: "Cold Wallet"}))

	fields := fieldErrors(t, ValidateCreateAccount(request.CreateAccountRequest{Name: "   "}))
	assert.Equal(t, "name is required", fields["name"])

	assert.NoError(t, ValidateArchiveAccount(request.ArchiveAccountRequest{IsArchived: boolPtr(false)}))
	fields = fieldErrors(t, ValidateArchiveAccount(request.ArchiveAccountRequest{}))
	assert.Contains(t, fields, "isArchived")
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"quantity": "bad", "dateTime": "missing"}}
	assert.Equal(t, "dateTime: missing; quantity: bad", err.Error())
}
