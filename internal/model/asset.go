package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType classifies an asset for summaries and for the cash-like rule.
type AssetType string

const (
	AssetCash   AssetType = "CASH"
	AssetStable AssetType = "STABLE"
	AssetCrypto AssetType = "CRYPTO"
	AssetEquity AssetType = "EQUITY"
	AssetNFT    AssetType = "NFT"
	AssetOther  AssetType = "OTHER"
)

// VolatilityBucket groups assets by risk profile.
type VolatilityBucket string

const (
	VolatilityCashLike VolatilityBucket = "CASH_LIKE"
	VolatilityLow      VolatilityBucket = "LOW"
	VolatilityMedium   VolatilityBucket = "MEDIUM"
	VolatilityHigh     VolatilityBucket = "HIGH"
)

// PricingMode decides whether the manual or the fetched price wins.
type PricingMode string

const (
	PricingAuto   PricingMode = "AUTO"
	PricingManual PricingMode = "MANUAL"
)

// cashSymbols are treated as 1:1 with the base currency regardless of type.
var cashSymbols = map[string]bool{"USD": true, "USDT": true, "USDC": true}

// Asset represents an asset from the database together with its latest auto price record.
type Asset struct {
	ID                   string              `json:"id"`
	Symbol               string              `json:"symbol"`
	Name                 string              `json:"name"`
	Type                 AssetType           `json:"type"`
	VolatilityBucket     VolatilityBucket    `json:"volatilityBucket"`
	PricingMode          PricingMode         `json:"pricingMode"`
	ManualPrice          decimal.NullDecimal `json:"manualPrice"`
	ManualPriceUpdatedAt *time.Time          `json:"manualPriceUpdatedAt,omitempty"`
	LatestPrice          *PriceRecord        `json:"latestPrice,omitempty"`
}

// IsCashLike reports whether the asset is assumed 1:1 with the base currency,
// so that cost basis equals the quantity moved.
func (a Asset) IsCashLike() bool {
	if a.Type == AssetCash || a.Type == AssetStable {
		return true
	}
	if a.VolatilityBucket == VolatilityCashLike {
		return true
	}
	return cashSymbols[strings.ToUpper(a.Symbol)]
}

// PriceRecord is one fetched auto price for an asset.
type PriceRecord struct {
	ID          string          `json:"id"`
	AssetID     string          `json:"assetId"`
	PriceInBase decimal.Decimal `json:"priceInBase"`
	Source      string          `json:"source"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// AssetFilter for querying assets. Empty fields mean "no restriction".
type AssetFilter struct {
	AssetIDs         []string
	Type             AssetType
	VolatilityBucket VolatilityBucket
}

// ValidAssetTypes contains the allowed asset type values.
var ValidAssetTypes = map[AssetType]bool{
	AssetCash: true, AssetStable: true, AssetCrypto: true,
	AssetEquity: true, AssetNFT: true, AssetOther: true,
}

// ValidVolatilityBuckets contains the allowed volatility bucket values.
var ValidVolatilityBuckets = map[VolatilityBucket]bool{
	VolatilityCashLike: true, VolatilityLow: true, VolatilityMedium: true, VolatilityHigh: true,
}

// ValidPricingModes contains the allowed pricing mode values.
var ValidPricingModes = map[PricingMode]bool{
	PricingAuto: true, PricingManual: true,
}
