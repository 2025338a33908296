package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the kind of a ledger transaction. The sign of the quantity encodes
// the direction; the type decides which accounting rule applies on replay.
type TxType string

const (
	TxDeposit        TxType = "DEPOSIT"
	TxWithdrawal     TxType = "WITHDRAWAL"
	TxTrade          TxType = "TRADE"
	TxYield          TxType = "YIELD"
	TxNFTTrade       TxType = "NFT_TRADE"
	TxOfflineTrade   TxType = "OFFLINE_TRADE"
	TxHedge          TxType = "HEDGE"
	TxTransfer       TxType = "TRANSFER"
	TxCostBasisReset TxType = "COST_BASIS_RESET"
	TxReconciliation TxType = "RECONCILIATION"
	TxOther          TxType = "OTHER"
)

// MatchReferenceTag prefixes an external reference that pairs two transfer legs
// explicitly, bypassing the automatic balance checks.
const MatchReferenceTag = "MATCH:"

// AllTxTypes lists every transaction type in declaration order.
var AllTxTypes = []TxType{
	TxDeposit, TxWithdrawal, TxTrade, TxYield, TxNFTTrade, TxOfflineTrade,
	TxHedge, TxTransfer, TxCostBasisReset, TxReconciliation, TxOther,
}

// ParseTxType converts a stored or submitted type string into a TxType.
// Matching is case-insensitive.
func ParseTxType(s string) (TxType, error) {
	candidate := TxType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AllTxTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type: %q", s)
}

// IsTradeKind reports whether the type represents an exchange of value with a
// counterparty (as opposed to a pure movement of units).
func (t TxType) IsTradeKind() bool {
	switch t {
	case TxTrade, TxNFTTrade, TxOfflineTrade, TxHedge:
		return true
	}
	return false
}

// Transaction is one immutable entry of the append-only ledger.
// Optional monetary fields use decimal.NullDecimal so "absent" and "zero" stay distinct.
type Transaction struct {
	ID                string              `json:"id"`
	DateTime          time.Time           `json:"dateTime"`
	AccountID         string              `json:"accountId"`
	AssetID           string              `json:"assetId"`
	Quantity          decimal.Decimal     `json:"quantity"`
	Type              TxType              `json:"type"`
	UnitPriceInBase   decimal.NullDecimal `json:"unitPriceInBase"`
	TotalValueInBase  decimal.NullDecimal `json:"totalValueInBase"`
	FeeInBase         decimal.NullDecimal `json:"feeInBase"`
	ExternalReference string              `json:"externalReference,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	CreatedAt         time.Time           `json:"createdAt,omitempty"`
}

// IsManualMatch reports whether the transaction carries an operator-confirmed
// transfer pairing reference.
func (t Transaction) IsManualMatch() bool {
	return strings.HasPrefix(t.ExternalReference, MatchReferenceTag)
}

// TransactionFilter narrows the transaction set returned by the repository.
// Empty slices mean "no restriction".
type TransactionFilter struct {
	AccountIDs       []string
	AssetIDs         []string
	AssetType        AssetType
	VolatilityBucket VolatilityBucket
	Types            []TxType
}

// TransactionResponse represents a transaction enriched with asset and account
// labels for API responses.
type TransactionResponse struct {
	Transaction
	AssetSymbol string `json:"assetSymbol"`
	AccountName string `json:"accountName"`
}
