package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// ValidateCreateAsset validates an asset creation request.
//
// Required fields:
//   - symbol: Non-empty, at most 32 characters
//   - name: Non-empty
//   - type: One of CASH, STABLE, CRYPTO, EQUITY, NFT, OTHER
//   - volatilityBucket: One of CASH_LIKE, LOW, MEDIUM, HIGH
//
// Optional fields (validated if provided):
//   - pricingMode: AUTO or MANUAL
//   - manualPrice: Positive decimal
func ValidateCreateAsset(req request.CreateAssetRequest) error {
	errors := make(map[string]string)

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	} else if len(symbol) > 32 {
		errors["symbol"] = "symbol must be 32 characters or less"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if !model.ValidAssetTypes[model.AssetType(strings.ToUpper(req.Type))] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}
	if !model.ValidVolatilityBuckets[model.VolatilityBucket(strings.ToUpper(req.VolatilityBucket))] {
		errors["volatilityBucket"] = fmt.Sprintf("invalid volatility bucket: %s", req.VolatilityBucket)
	}
	if req.PricingMode != "" && !model.ValidPricingModes[model.PricingMode(strings.ToUpper(req.PricingMode))] {
		errors["pricingMode"] = fmt.Sprintf("invalid pricing mode: %s", req.PricingMode)
	}

	checkPositive(errors, "manualPrice", req.ManualPrice)

	return result(errors)
}

// ValidateSetManualPrice validates a manual price update.
// MANUAL mode requires a price; a nil price with AUTO mode clears it.
func ValidateSetManualPrice(req request.SetManualPriceRequest) error {
	errors := make(map[string]string)

	mode := model.PricingMode(strings.ToUpper(req.PricingMode))
	if !model.ValidPricingModes[mode] {
		errors["pricingMode"] = fmt.Sprintf("invalid pricing mode: %s", req.PricingMode)
	}
	if mode == model.PricingManual && req.ManualPrice == nil {
		errors["manualPrice"] = "manualPrice is required in MANUAL mode"
	}

	checkPositive(errors, "manualPrice", req.ManualPrice)

	return result(errors)
}

// ValidateRecordPrice validates an auto price record.
func ValidateRecordPrice(req request.RecordPriceRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Price) == "" {
		errors["price"] = "price is required"
	} else {
		checkPositive(errors, "price", &req.Price)
	}

	if strings.TrimSpace(req.Source) == "" {
		errors["source"] = "source is required"
	}

	if req.LastUpdated != "" {
		if _, err := ParseDateTime(req.LastUpdated); err != nil {
			errors["lastUpdated"] = err.Error()
		}
	}

	return result(errors)
}

func checkPositive(errors map[string]string, field string, value *string) {
	d, err := ParseOptionalDecimal(value)
	if err != nil {
		errors[field] = err.Error()
		return
	}
	if d.Valid && !d.Decimal.IsPositive() {
		errors[field] = field + " must be positive"
	}
}
