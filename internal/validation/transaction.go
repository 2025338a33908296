package validation

import (
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// ValidateCreateTransaction validates a ledger entry before it is appended.
//
// Required fields:
//   - accountId, assetId: Must be valid UUIDs
//   - dateTime: RFC3339 timestamp or YYYY-MM-DD
//   - type: One of the known transaction types (case-insensitive)
//   - quantity: Signed decimal; the sign is the direction
//
// Optional fields (validated if provided):
//   - unitPriceInBase, totalValueInBase, feeInBase: Non-negative decimals
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	if err := ValidateUUID(req.AccountID); err != nil {
		return err
	}
	if err := ValidateUUID(req.AssetID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.DateTime) == "" {
		errors["dateTime"] = "dateTime is required"
	} else if _, err := ParseDateTime(req.DateTime); err != nil {
		errors["dateTime"] = err.Error()
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if _, err := model.ParseTxType(req.Type); err != nil {
		errors["type"] = err.Error()
	}

	if strings.TrimSpace(req.Quantity) == "" {
		errors["quantity"] = "quantity is required"
	} else if _, err := ParseDecimal(req.Quantity); err != nil {
		errors["quantity"] = err.Error()
	}

	checkNonNegative(errors, "unitPriceInBase", req.UnitPriceInBase)
	checkNonNegative(errors, "totalValueInBase", req.TotalValueInBase)
	checkNonNegative(errors, "feeInBase", req.FeeInBase)

	if len(req.ExternalReference) > 255 {
		errors["externalReference"] = "externalReference must be 255 characters or less"
	}

	return result(errors)
}
