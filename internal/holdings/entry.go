package holdings

import (
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// entry is one replayable ledger step. The concrete types below are the only
// implementations; each carries just the fields its accounting rule reads.
type entry interface {
	header() entryHeader
}

type entryHeader struct {
	id  string
	at  time.Time
	key model.PositionKey
}

func (h entryHeader) header() entryHeader { return h }

// movement is any non-transfer trade, deposit, withdrawal or yield.
type movement struct {
	entryHeader
	txType    model.TxType
	quantity  decimal.Decimal
	unitPrice decimal.NullDecimal
	total     decimal.NullDecimal
}

// value returns the absolute base-currency value of the movement, preferring
// the explicit total over unit price times quantity.
func (m movement) value() (decimal.Decimal, bool) {
	if m.total.Valid {
		return m.total.Decimal.Abs(), true
	}
	if m.unitPrice.Valid {
		return m.unitPrice.Decimal.Mul(m.quantity).Abs(), true
	}
	return decimal.Zero, false
}

// transferLeg is one side of an inter-account transfer. It keeps the full
// movement so that an unresolvable leg can fall back to the movement rule.
type transferLeg struct {
	movement
	reference string
}

func (l transferLeg) manualMatch() bool {
	return strings.HasPrefix(l.reference, model.MatchReferenceTag)
}

// basisReset overwrites the cost basis of a position.
type basisReset struct {
	entryHeader
	total decimal.NullDecimal
}

// reconciliation force-adjusts the quantity without touching the cost basis.
type reconciliation struct {
	entryHeader
	quantity decimal.Decimal
}

// classify converts a stored transaction into its replay variant.
func classify(tx model.Transaction) entry {
	h := entryHeader{
		id: tx.ID,
		at: tx.DateTime,
		key: model.PositionKey{
			AssetID:   tx.AssetID,
			AccountID: tx.AccountID,
		},
	}

	switch tx.Type {
	case model.TxCostBasisReset:
		return basisReset{entryHeader: h, total: tx.TotalValueInBase}
	case model.TxReconciliation:
		return reconciliation{entryHeader: h, quantity: tx.Quantity}
	}

	m := movement{
		entryHeader: h,
		txType:      tx.Type,
		quantity:    tx.Quantity,
		unitPrice:   tx.UnitPriceInBase,
		total:       tx.TotalValueInBase,
	}
	if tx.Type == model.TxTransfer {
		return transferLeg{movement: m, reference: tx.ExternalReference}
	}
	return m
}

// compareTransactions orders the ledger by (date_time, id).
func compareTransactions(a, b model.Transaction) int {
	if c := a.DateTime.Compare(b.DateTime); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
