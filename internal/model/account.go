package model

// Account represents a wallet, exchange or brokerage account that holds positions.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsArchived  bool   `json:"isArchived"`
}

// AccountFilter for querying accounts
type AccountFilter struct {
	IncludeArchived bool
}
