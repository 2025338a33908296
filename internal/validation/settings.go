package validation

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
)

// ValidateUpdateSettings validates a settings update. All fields are optional.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	if req.PriceAutoRefreshIntervalMinutes != nil && *req.PriceAutoRefreshIntervalMinutes <= 0 {
		errors["priceAutoRefreshIntervalMinutes"] = "priceAutoRefreshIntervalMinutes must be positive"
	}

	if req.BaseCurrency != nil && !IsCurrencyCode(*req.BaseCurrency) {
		errors["baseCurrency"] = fmt.Sprintf("unknown currency: %s", *req.BaseCurrency)
	}

	return result(errors)
}

// IsCurrencyCode reports whether code is an ISO 4217 code known to go-money.
func IsCurrencyCode(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}
