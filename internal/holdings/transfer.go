package holdings

import (
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// TransferOutcome is how a transfer group was resolved.
type TransferOutcome string

const (
	TransferMatched   TransferOutcome = "matched"
	TransferUnmatched TransferOutcome = "unmatched"
	TransferAmbiguous TransferOutcome = "ambiguous"
	TransferInvalid   TransferOutcome = "invalid"
)

// status is the cost basis status a failed group leaves on its positions.
func (o TransferOutcome) status() model.CostBasisStatus {
	switch o {
	case TransferUnmatched:
		return model.StatusTransferUnmatched
	case TransferAmbiguous:
		return model.StatusTransferAmbiguous
	case TransferInvalid:
		return model.StatusTransferInvalid
	default:
		return model.StatusKnown
	}
}

// transferKey groups the legs of one transfer. A MATCH: reference pairs legs
// on reference alone; otherwise legs must agree on timestamp, absolute
// quantity and reference.
func transferKey(leg transferLeg) string {
	if leg.manualMatch() {
		return leg.key.AssetID + "|" + leg.reference
	}
	return strings.Join([]string{
		leg.key.AssetID,
		leg.at.UTC().Format(time.RFC3339Nano),
		leg.quantity.Abs().String(),
		leg.reference,
	}, "|")
}

// transferGroup is every leg sharing one transfer key, in replay order.
type transferGroup struct {
	key      string
	legs     []transferLeg
	resolved bool
	outcome  TransferOutcome
	reason   string
	applied  bool
	src, dst transferLeg
}

// diagnostic lists every leg of the group.
func (g *transferGroup) diagnostic() *model.TransferDiagnostic {
	ids := make([]string, 0, len(g.legs))
	for _, leg := range g.legs {
		ids = append(ids, leg.id)
	}
	return mergeDiagnostics(&model.TransferDiagnostic{Key: g.key, TransactionIDs: ids})
}

// resolve validates the group once. Later calls return the cached outcome.
func (g *transferGroup) resolve() TransferOutcome {
	if g.resolved {
		return g.outcome
	}
	g.resolved = true

	switch {
	case len(g.legs) < 2:
		g.outcome, g.reason = TransferUnmatched, "no counterpart leg"
		return g.outcome
	case len(g.legs) > 2:
		g.outcome, g.reason = TransferAmbiguous, "more than two legs share the transfer key"
		return g.outcome
	}

	a, b := g.legs[0], g.legs[1]
	switch {
	case a.key.AssetID != b.key.AssetID:
		g.outcome, g.reason = TransferInvalid, "legs reference different assets"
	case a.key.AccountID == b.key.AccountID:
		g.outcome, g.reason = TransferInvalid, "legs are in the same account"
	case a.quantity.IsZero() || b.quantity.IsZero():
		g.outcome, g.reason = TransferInvalid, "zero quantity leg"
	case a.quantity.Sign() == b.quantity.Sign():
		g.outcome, g.reason = TransferInvalid, "legs have the same sign"
	case !a.manualMatch() && !balanced(a, b):
		g.outcome, g.reason = TransferInvalid, "leg quantities do not balance"
	default:
		g.outcome = TransferMatched
		if a.quantity.IsNegative() {
			g.src, g.dst = a, b
		} else {
			g.src, g.dst = b, a
		}
	}
	return g.outcome
}

func balanced(a, b transferLeg) bool {
	if a.quantity.Add(b.quantity).Abs().GreaterThan(TransferTolerance) {
		return false
	}
	return a.quantity.Abs().Sub(b.quantity.Abs()).Abs().LessThanOrEqual(TransferTolerance)
}

// transferMatcher owns the transfer groups of a single replay.
type transferMatcher struct {
	groups map[string]*transferGroup
	order  []*transferGroup
}

// newTransferMatcher partitions all transfer legs up front so that a group can
// be resolved at its first leg with full knowledge of its members.
func newTransferMatcher(legs []transferLeg) *transferMatcher {
	m := &transferMatcher{groups: make(map[string]*transferGroup)}
	for _, leg := range legs {
		key := transferKey(leg)
		g, ok := m.groups[key]
		if !ok {
			g = &transferGroup{key: key}
			m.groups[key] = g
			m.order = append(m.order, g)
		}
		g.legs = append(g.legs, leg)
	}
	return m
}

func (m *transferMatcher) group(leg transferLeg) *transferGroup {
	return m.groups[transferKey(leg)]
}

// outcomes counts resolved groups per outcome.
func (m *transferMatcher) outcomes() map[TransferOutcome]int {
	counts := make(map[TransferOutcome]int)
	for _, g := range m.order {
		if g.resolved {
			counts[g.outcome]++
		}
	}
	return counts
}
