package request

// CreateAssetRequest represents the request body for creating an asset
type CreateAssetRequest struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	VolatilityBucket string  `json:"volatilityBucket"`
	PricingMode      string  `json:"pricingMode"`
	ManualPrice      *string `json:"manualPrice,omitempty"`
}

// SetManualPriceRequest sets or clears the operator price of an asset.
// A nil ManualPrice clears it.
type SetManualPriceRequest struct {
	PricingMode string  `json:"pricingMode"`
	ManualPrice *string `json:"manualPrice"`
}

// RecordPriceRequest appends a fetched auto price for an asset.
type RecordPriceRequest struct {
	Price       string `json:"price"`
	Source      string `json:"source"`
	LastUpdated string `json:"lastUpdated"`
}
