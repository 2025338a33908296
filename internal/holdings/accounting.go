package holdings

import (
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// applyMovement applies the average-cost rule for a non-transfer movement.
//
// Cash-like assets move quantity and cost basis one for one. For everything
// else an acquisition adds its valuation to the basis and a disposal releases
// basis proportionally to the quantity leaving. Missing valuations degrade
// the position to UNKNOWN; the quantity is always applied.
func applyMovement(p *model.Position, m movement, cashLike, strictDisposals bool) {
	q := m.quantity
	if q.IsZero() {
		return
	}

	if cashLike {
		p.Quantity = p.Quantity.Add(q)
		p.CostBasis = clampZero(p.CostBasis.Add(q))
		return
	}

	if q.IsPositive() {
		p.Quantity = p.Quantity.Add(q)
		value, ok := m.value()
		if !ok {
			degrade(p, model.StatusUnknown, nil)
			return
		}
		p.CostBasis = p.CostBasis.Add(value)
		return
	}

	before := p.Quantity
	p.Quantity = p.Quantity.Add(q)

	if strictDisposals && m.txType.IsTradeKind() {
		if _, ok := m.value(); !ok {
			degrade(p, model.StatusUnknown, nil)
			return
		}
	}
	if !p.CostBasisKnown() || !before.IsPositive() {
		degrade(p, model.StatusUnknown, nil)
		return
	}
	released := p.CostBasis.Mul(q.Abs()).Div(before)
	p.CostBasis = clampZero(p.CostBasis.Sub(released))
}

// applyBasisReset overwrites the cost basis. It is the only operation that
// clears a TRANSFER_* status.
func applyBasisReset(p *model.Position, r basisReset) {
	p.Diagnostic = nil
	if !r.total.Valid {
		p.Status = model.StatusUnknown
		return
	}
	p.CostBasis = r.total.Decimal.Abs()
	p.Status = model.StatusKnown
}

// applyReconciliation adjusts the quantity only. A position reconciled down
// to dust is closed out, cost basis included.
func applyReconciliation(p *model.Position, r reconciliation) {
	p.Quantity = p.Quantity.Add(r.quantity)
	if IsDust(p.Quantity) {
		p.Quantity = decimal.Zero
		p.CostBasis = decimal.Zero
	}
}

// applyTransferPair moves quantity and a proportional share of cost basis from
// src to dst. Decimal arithmetic cannot produce non-finite values, so the
// guard on the source quantity is what keeps the share well defined.
func applyTransferPair(src, dst *model.Position, srcLeg, dstLeg transferLeg) {
	before := src.Quantity
	src.Quantity = src.Quantity.Add(srcLeg.quantity)
	dst.Quantity = dst.Quantity.Add(dstLeg.quantity)

	if !src.CostBasisKnown() || !before.IsPositive() {
		degrade(src, model.StatusUnknown, nil)
		degrade(dst, model.StatusUnknown, nil)
		return
	}

	moved := src.CostBasis.Mul(srcLeg.quantity.Abs()).Div(before)
	if moved.GreaterThan(src.CostBasis) {
		moved = src.CostBasis
	}
	src.CostBasis = src.CostBasis.Sub(moved)
	dst.CostBasis = dst.CostBasis.Add(moved)
}
