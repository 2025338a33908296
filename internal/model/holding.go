package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBasisStatus describes how trustworthy a position's cost basis is.
// The TRANSFER_* values carry a transfer diagnostic and are sticky: only a
// COST_BASIS_RESET clears them.
type CostBasisStatus string

const (
	StatusKnown             CostBasisStatus = "KNOWN"
	StatusUnknown           CostBasisStatus = "UNKNOWN"
	StatusTransferUnmatched CostBasisStatus = "TRANSFER_UNMATCHED"
	StatusTransferAmbiguous CostBasisStatus = "TRANSFER_AMBIGUOUS"
	StatusTransferInvalid   CostBasisStatus = "TRANSFER_INVALID"
)

// Priority orders statuses from least to most specific. A higher priority
// status always wins when two statuses are merged.
func (s CostBasisStatus) Priority() int {
	switch s {
	case StatusUnknown:
		return 1
	case StatusTransferUnmatched:
		return 2
	case StatusTransferAmbiguous:
		return 3
	case StatusTransferInvalid:
		return 4
	default:
		return 0
	}
}

// IsTransfer reports whether the status is one of the TRANSFER_* diagnostics.
func (s CostBasisStatus) IsTransfer() bool {
	return s.Priority() >= StatusTransferUnmatched.Priority()
}

// PositionKey identifies a position. Positions are per (asset, account).
type PositionKey struct {
	AssetID   string `json:"assetId"`
	AccountID string `json:"accountId"`
}

// TransferDiagnostic records which transfer group put a position into a
// TRANSFER_* status, for operator troubleshooting.
type TransferDiagnostic struct {
	Key            string   `json:"key"`
	TransactionIDs []string `json:"transactionIds"`
}

// Position is the running state of one (asset, account) pair during a replay.
type Position struct {
	PositionKey
	Quantity   decimal.Decimal     `json:"quantity"`
	CostBasis  decimal.Decimal     `json:"costBasis"`
	Status     CostBasisStatus     `json:"costBasisStatus"`
	Diagnostic *TransferDiagnostic `json:"transferDiagnostic,omitempty"`
}

// CostBasisKnown reports whether the cost basis can be trusted.
func (p Position) CostBasisKnown() bool {
	return p.Status == StatusKnown
}

// PriceSource names where a resolved price came from.
type PriceSource string

const (
	PriceSourceManual PriceSource = "manual"
	PriceSourceAuto   PriceSource = "auto"
	PriceSourceNone   PriceSource = "none"
)

// PriceQuote is the outcome of resolving an asset's price.
type PriceQuote struct {
	Price       decimal.NullDecimal `json:"price"`
	Source      PriceSource         `json:"source"`
	Provider    string              `json:"provider,omitempty"`
	LastUpdated *time.Time          `json:"lastUpdated,omitempty"`
	IsManual    bool                `json:"isManual"`
	IsStale     bool                `json:"isStale"`
}

// Priced reports whether the quote carries a usable, strictly positive price.
func (q PriceQuote) Priced() bool {
	return q.Price.Valid && q.Price.Decimal.IsPositive()
}

// HoldingRow is one valued position, or one asset consolidated across accounts.
type HoldingRow struct {
	AssetID            string              `json:"assetId"`
	AccountID          string              `json:"accountId,omitempty"`
	AccountIDs         []string            `json:"accountIds"`
	AccountName        string              `json:"accountName,omitempty"`
	Symbol             string              `json:"symbol"`
	AssetName          string              `json:"assetName"`
	AssetType          AssetType           `json:"assetType"`
	VolatilityBucket   VolatilityBucket    `json:"volatilityBucket"`
	Quantity           decimal.Decimal     `json:"quantity"`
	CostBasis          decimal.Decimal     `json:"costBasis"`
	CostBasisKnown     bool                `json:"costBasisKnown"`
	CostBasisStatus    CostBasisStatus     `json:"costBasisStatus"`
	TransferDiagnostic *TransferDiagnostic `json:"transferDiagnostic,omitempty"`
	Price              decimal.NullDecimal `json:"price"`
	PriceSource        PriceSource         `json:"priceSource"`
	PriceUpdatedAt     *time.Time          `json:"priceUpdatedAt,omitempty"`
	IsManual           bool                `json:"isManual"`
	IsStale            bool                `json:"isStale"`
	MarketValue        decimal.NullDecimal `json:"marketValue"`
	AverageCost        decimal.NullDecimal `json:"averageCost"`
	UnrealizedPnL      decimal.NullDecimal `json:"unrealizedPnl"`
	UnrealizedPnLPct   decimal.NullDecimal `json:"unrealizedPnlPct"`
}

// HoldingsSummary aggregates holding rows. TotalCostBasis and
// TotalUnrealizedPnL are partial sums over the rows where the field is known.
type HoldingsSummary struct {
	BaseCurrency          string                               `json:"baseCurrency"`
	RowCount              int                                  `json:"rowCount"`
	TotalValue            decimal.Decimal                      `json:"totalValue"`
	TotalCostBasis        decimal.NullDecimal                  `json:"totalCostBasis"`
	TotalUnrealizedPnL    decimal.NullDecimal                  `json:"totalUnrealizedPnl"`
	ByType                map[AssetType]decimal.Decimal        `json:"byType"`
	ByVolatility          map[VolatilityBucket]decimal.Decimal `json:"byVolatility"`
	UnpricedCount         int                                  `json:"unpricedCount"`
	StalePriceCount       int                                  `json:"stalePriceCount"`
	UnknownCostBasisCount int                                  `json:"unknownCostBasisCount"`
	LatestAutoPriceAt     *time.Time                           `json:"latestAutoPriceAt,omitempty"`
	LatestManualPriceAt   *time.Time                           `json:"latestManualPriceAt,omitempty"`
}

// HoldingsFilter selects which holdings are reported. Asset
// filters restrict the replay; account filters restrict the reported rows.
type HoldingsFilter struct {
	AccountIDs       []string         `json:"accountIds,omitempty"`
	AssetIDs         []string         `json:"assetIds,omitempty"`
	AssetType        AssetType        `json:"assetType,omitempty"`
	VolatilityBucket VolatilityBucket `json:"volatilityBucket,omitempty"`
}

// AssetFilter returns the part of the filter that applies to assets.
func (f HoldingsFilter) AssetFilter() AssetFilter {
	return AssetFilter{
		AssetIDs:         f.AssetIDs,
		Type:             f.AssetType,
		VolatilityBucket: f.VolatilityBucket,
	}
}

// HoldingsSnapshot is a persisted summary of holdings at a point in time.
type HoldingsSnapshot struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId,omitempty"`
	TakenAt     time.Time       `json:"takenAt"`
	Summary     HoldingsSummary `json:"summary"`
	CalculateMs int64           `json:"calculateMs"`
}
