package holdings

import (
	"slices"
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// DustThreshold is the absolute quantity below which a position is
	// treated as closed.
	DustThreshold = decimal.New(1, -9)

	// TransferTolerance is how far the two legs of a transfer may differ in
	// absolute quantity and still balance.
	TransferTolerance = decimal.New(1, -9)
)

// IsDust reports whether a quantity is too small to be reported.
func IsDust(q decimal.Decimal) bool {
	return q.Abs().LessThan(DustThreshold)
}

// MergeStatus returns the higher-priority of two statuses. It is the single
// place where cost basis statuses are combined, so a TRANSFER_* status can
// never be overwritten by a weaker one.
func MergeStatus(current, incoming model.CostBasisStatus) model.CostBasisStatus {
	if incoming.Priority() > current.Priority() {
		return incoming
	}
	if current == "" {
		return incoming
	}
	return current
}

// degrade merges status into p. When status is a TRANSFER_* value that takes
// effect, diag is attached: a stronger status replaces the diagnostic, the
// same status extends it.
func degrade(p *model.Position, status model.CostBasisStatus, diag *model.TransferDiagnostic) {
	merged := MergeStatus(p.Status, status)
	if diag != nil && status.IsTransfer() && merged == status {
		if p.Status == status && p.Diagnostic != nil {
			p.Diagnostic = mergeDiagnostics(p.Diagnostic, diag)
		} else {
			p.Diagnostic = mergeDiagnostics(nil, diag)
		}
	}
	p.Status = merged
}

// mergeDiagnostics combines diagnostics into a fresh value. Keys are
// de-duplicated in order of first appearance, transaction ids are sorted.
func mergeDiagnostics(diags ...*model.TransferDiagnostic) *model.TransferDiagnostic {
	var keys, ids []string
	for _, d := range diags {
		if d == nil {
			continue
		}
		if d.Key != "" && !slices.Contains(keys, d.Key) {
			keys = append(keys, d.Key)
		}
		ids = append(ids, d.TransactionIDs...)
	}
	if len(keys) == 0 && len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	return &model.TransferDiagnostic{Key: strings.Join(keys, ", "), TransactionIDs: ids}
}

// clampZero floors a cost basis at zero.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
