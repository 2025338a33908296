package holdings

import (
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is used when no auto price refresh cadence is configured.
const DefaultRefreshInterval = 15 * time.Minute

// Options tune a holdings computation.
type Options struct {
	// RefreshInterval is the auto price refresh cadence. Prices older than
	// three intervals are stale.
	RefreshInterval time.Duration
	// Now returns the reference time for staleness. Defaults to time.Now.
	Now func() time.Time
	// BaseCurrency labels the summary.
	BaseCurrency string
	// StrictTradeDisposals degrades a trade-kind disposal without a valuation
	// to UNKNOWN even when the average cost could be applied.
	StrictTradeDisposals bool
	// Logger receives transfer resolution diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) refreshInterval() time.Duration {
	if o.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return o.RefreshInterval
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// ReplayStats describes a finished replay.
type ReplayStats struct {
	Transactions   int
	TransferGroups map[TransferOutcome]int
}

// Ledger is the result of a replay: one Position per (asset, account) touched
// by the transaction log.
type Ledger struct {
	positions map[model.PositionKey]*model.Position
	stats     ReplayStats
}

func newLedger() *Ledger {
	return &Ledger{positions: make(map[model.PositionKey]*model.Position)}
}

// touch returns the position for key, creating it with a KNOWN empty basis
// on first use.
func (l *Ledger) touch(key model.PositionKey) *model.Position {
	if p, ok := l.positions[key]; ok {
		return p
	}
	p := &model.Position{PositionKey: key, Status: model.StatusKnown}
	l.positions[key] = p
	return p
}

// Position returns a copy of the position for key.
func (l *Ledger) Position(key model.PositionKey) (model.Position, bool) {
	p, ok := l.positions[key]
	if !ok {
		return model.Position{}, false
	}
	return *p, true
}

// Positions returns copies of all positions ordered by asset then account.
func (l *Ledger) Positions() []model.Position {
	out := make([]model.Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b model.Position) int {
		if c := strings.Compare(a.AssetID, b.AssetID); c != 0 {
			return c
		}
		return strings.Compare(a.AccountID, b.AccountID)
	})
	return out
}

// Stats returns counters collected during the replay.
func (l *Ledger) Stats() ReplayStats {
	return l.stats
}

// Replay rebuilds every position from the transaction log.
//
// Transactions are replayed in ascending (date_time, id) order regardless of
// the order they are passed in. assets supplies the metadata used for the
// cash-like rule; a transaction referencing an unknown asset is treated as a
// non-cash asset.
//
// Parameters:
//   - txs: The transaction log. It is not modified.
//   - assets: Asset metadata keyed by asset ID
//   - opts: Computation options
//
// Returns:
//   - *Ledger: The replayed positions
func Replay(txs []model.Transaction, assets map[string]model.Asset, opts Options) *Ledger {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, compareTransactions)

	entries := make([]entry, 0, len(ordered))
	var legs []transferLeg
	for _, tx := range ordered {
		e := classify(tx)
		if leg, ok := e.(transferLeg); ok {
			legs = append(legs, leg)
		}
		entries = append(entries, e)
	}

	r := &replayer{
		ledger:  newLedger(),
		matcher: newTransferMatcher(legs),
		assets:  assets,
		strict:  opts.StrictTradeDisposals,
		log:     opts.logger(),
	}
	for _, e := range entries {
		r.apply(e)
	}

	r.ledger.stats = ReplayStats{
		Transactions:   len(entries),
		TransferGroups: r.matcher.outcomes(),
	}
	return r.ledger
}

// replayer owns the position map for the duration of one replay.
type replayer struct {
	ledger  *Ledger
	matcher *transferMatcher
	assets  map[string]model.Asset
	strict  bool
	log     zerolog.Logger
}

func (r *replayer) cashLike(assetID string) bool {
	return r.assets[assetID].IsCashLike()
}

func (r *replayer) apply(e entry) {
	switch v := e.(type) {
	case basisReset:
		applyBasisReset(r.ledger.touch(v.key), v)
	case reconciliation:
		applyReconciliation(r.ledger.touch(v.key), v)
	case transferLeg:
		r.applyTransferLeg(v)
	case movement:
		applyMovement(r.ledger.touch(v.key), v, r.cashLike(v.key.AssetID), r.strict)
	}
}

// applyTransferLeg applies a matched pair in full at its first leg and skips
// the second. Legs of a failed group fall back to the movement rule, and the
// resulting position is flagged unless it is empty.
func (r *replayer) applyTransferLeg(leg transferLeg) {
	g := r.matcher.group(leg)
	outcome := g.resolve()

	if outcome == TransferMatched {
		if g.applied {
			return
		}
		g.applied = true
		src := r.ledger.touch(g.src.key)
		dst := r.ledger.touch(g.dst.key)
		applyTransferPair(src, dst, g.src, g.dst)
		return
	}

	p := r.ledger.touch(leg.key)
	applyMovement(p, leg.movement, r.cashLike(leg.key.AssetID), r.strict)
	if IsDust(p.Quantity) {
		return
	}
	degrade(p, outcome.status(), g.diagnostic())

	r.log.Debug().
		Str("transfer_key", g.key).
		Str("transaction_id", leg.id).
		Str("outcome", string(outcome)).
		Str("reason", g.reason).
		Msg("Transfer leg applied as plain movement")
}
