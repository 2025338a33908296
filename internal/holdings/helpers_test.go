package holdings

import (
	"fmt"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

var testAssets = map[string]model.Asset{
	"btc":  {ID: "btc", Symbol: "BTC", Name: "Bitcoin", Type: model.AssetCrypto, VolatilityBucket: model.VolatilityHigh},
	"eth":  {ID: "eth", Symbol: "ETH", Name: "Ether", Type: model.AssetCrypto, VolatilityBucket: model.VolatilityHigh},
	"sol":  {ID: "sol", Symbol: "SOL", Name: "Solana", Type: model.AssetCrypto, VolatilityBucket: model.VolatilityHigh},
	"usdc": {ID: "usdc", Symbol: "USDC", Name: "USD Coin", Type: model.AssetStable, VolatilityBucket: model.VolatilityCashLike},
}

// txBuilder builds transactions for replay tests.
type txBuilder struct {
	tx model.Transaction
}

var txSeq int

func newTx(account, asset string, txType model.TxType, qty string) *txBuilder {
	txSeq++
	return &txBuilder{tx: model.Transaction{
		ID:        fmt.Sprintf("tx-%04d", txSeq),
		DateTime:  baseTime.Add(time.Duration(txSeq) * time.Minute),
		AccountID: account,
		AssetID:   asset,
		Type:      txType,
		Quantity:  decimal.RequireFromString(qty),
	}}
}

func (b *txBuilder) WithID(id string) *txBuilder {
	b.tx.ID = id
	return b
}

func (b *txBuilder) At(t time.Time) *txBuilder {
	b.tx.DateTime = t
	return b
}

func (b *txBuilder) WithTotal(v string) *txBuilder {
	b.tx.TotalValueInBase = decimal.NewNullDecimal(decimal.RequireFromString(v))
	return b
}

func (b *txBuilder) WithUnitPrice(v string) *txBuilder {
	b.tx.UnitPriceInBase = decimal.NewNullDecimal(decimal.RequireFromString(v))
	return b
}

func (b *txBuilder) WithReference(ref string) *txBuilder {
	b.tx.ExternalReference = ref
	return b
}

func (b *txBuilder) Build() model.Transaction {
	return b.tx
}

func key(asset, account string) model.PositionKey {
	return model.PositionKey{AssetID: asset, AccountID: account}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func mustPosition(t *testing.T, l *Ledger, k model.PositionKey) model.Position {
	t.Helper()
	p, ok := l.Position(k)
	if !ok {
		t.Fatalf("position %v not found", k)
	}
	return p
}
