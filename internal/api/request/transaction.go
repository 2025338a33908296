package request

// CreateTransactionRequest represents the request body for appending a ledger entry.
// Monetary fields are decimal strings so no precision is lost in transit.
type CreateTransactionRequest struct {
	DateTime          string  `json:"dateTime"`
	AccountID         string  `json:"accountId"`
	AssetID           string  `json:"assetId"`
	Quantity          string  `json:"quantity"`
	Type              string  `json:"type"`
	UnitPriceInBase   *string `json:"unitPriceInBase,omitempty"`
	TotalValueInBase  *string `json:"totalValueInBase,omitempty"`
	FeeInBase         *string `json:"feeInBase,omitempty"`
	ExternalReference string  `json:"externalReference"`
	Notes             string  `json:"notes"`
}
