package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithName("Cold Wallet").
//	    Archived().
//	    Build(t, db)
type AccountBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		Name:        MakeAccountName("Test Account"),
		Description: "Test description",
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// Archived marks the account as archived.
func (b *AccountBuilder) Archived() *AccountBuilder {
	b.IsArchived = true
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	account := model.Account{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
	}
	if err := repository.NewAccountRepository(db).InsertAccount(context.Background(), &account); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

// CreateAccount creates an account with the given name and default values.
func CreateAccount(t *testing.T, db *sql.DB, name string) model.Account {
	t.Helper()
	return NewAccount().WithName(name).Build(t, db)
}

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	btc := testutil.NewAsset().
//	    WithSymbol("BTC").
//	    WithManualPrice("50000").
//	    Build(t, db)
type AssetBuilder struct {
	asset model.Asset
}

// NewAsset creates an AssetBuilder for an AUTO-priced HIGH volatility crypto asset.
func NewAsset() *AssetBuilder {
	symbol := MakeSymbol("TKN")
	return &AssetBuilder{asset: model.Asset{
		ID:               MakeID(),
		Symbol:           symbol,
		Name:             symbol + " Token",
		Type:             model.AssetCrypto,
		VolatilityBucket: model.VolatilityHigh,
		PricingMode:      model.PricingAuto,
	}}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.asset.ID = id
	return b
}

// WithSymbol sets a custom symbol and name.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.asset.Symbol = symbol
	b.asset.Name = symbol + " Token"
	return b
}

// WithType sets the asset type.
func (b *AssetBuilder) WithType(assetType model.AssetType) *AssetBuilder {
	b.asset.Type = assetType
	return b
}

// WithVolatility sets the volatility bucket.
func (b *AssetBuilder) WithVolatility(bucket model.VolatilityBucket) *AssetBuilder {
	b.asset.VolatilityBucket = bucket
	return b
}

// Stablecoin makes the asset a cash-like stablecoin.
func (b *AssetBuilder) Stablecoin() *AssetBuilder {
	b.asset.Type = model.AssetStable
	b.asset.VolatilityBucket = model.VolatilityCashLike
	return b
}

// WithManualPrice switches the asset to MANUAL pricing at price.
func (b *AssetBuilder) WithManualPrice(price string) *AssetBuilder {
	now := time.Now().UTC()
	b.asset.PricingMode = model.PricingManual
	b.asset.ManualPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	b.asset.ManualPriceUpdatedAt = &now
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	asset := b.asset
	if err := repository.NewAssetRepository(db).InsertAsset(context.Background(), &asset); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return asset
}

// CreateAsset creates a crypto asset with the given symbol.
func CreateAsset(t *testing.T, db *sql.DB, symbol string) model.Asset {
	t.Helper()
	return NewAsset().WithSymbol(symbol).Build(t, db)
}

// CreatePrice records an auto price for an asset.
//
// Example usage:
//
//	testutil.CreatePrice(t, db, btc.ID, "50000", time.Now())
func CreatePrice(t *testing.T, db *sql.DB, assetID, price string, at time.Time) model.PriceRecord {
	t.Helper()

	record := model.PriceRecord{
		ID:          MakeID(),
		AssetID:     assetID,
		PriceInBase: decimal.RequireFromString(price),
		Source:      "test",
		LastUpdated: at.UTC(),
	}
	if err := repository.NewAssetRepository(db).InsertPrice(context.Background(), &record); err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
	return record
}

// TransactionBuilder provides a fluent interface for creating ledger entries.
//
// Example usage:
//
//	testutil.NewTransaction(account.ID, btc.ID, model.TxTrade, "1").
//	    WithTotal("50000").
//	    At(day1).
//	    Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder with the given quantity.
func NewTransaction(accountID, assetID string, txType model.TxType, quantity string) *TransactionBuilder {
	now := time.Now().UTC()
	return &TransactionBuilder{tx: model.Transaction{
		ID:        MakeID(),
		DateTime:  now,
		AccountID: accountID,
		AssetID:   assetID,
		Quantity:  decimal.RequireFromString(quantity),
		Type:      txType,
		CreatedAt: now,
	}}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.tx.ID = id
	return b
}

// At sets the transaction time.
func (b *TransactionBuilder) At(at time.Time) *TransactionBuilder {
	b.tx.DateTime = at.UTC()
	return b
}

// WithTotal sets the total value in base currency.
func (b *TransactionBuilder) WithTotal(total string) *TransactionBuilder {
	b.tx.TotalValueInBase = decimal.NewNullDecimal(decimal.RequireFromString(total))
	return b
}

// WithUnitPrice sets the unit price in base currency.
func (b *TransactionBuilder) WithUnitPrice(price string) *TransactionBuilder {
	b.tx.UnitPriceInBase = decimal.NewNullDecimal(decimal.RequireFromString(price))
	return b
}

// WithReference sets the external reference.
func (b *TransactionBuilder) WithReference(ref string) *TransactionBuilder {
	b.tx.ExternalReference = ref
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx := b.tx
	if err := repository.NewTransactionRepository(db).InsertTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}
	return tx
}
