package request

type UpdateSettingsRequest struct {
	PriceAutoRefreshIntervalMinutes *int    `json:"priceAutoRefreshIntervalMinutes,omitempty"`
	BaseCurrency                    *string `json:"baseCurrency,omitempty"`
}
