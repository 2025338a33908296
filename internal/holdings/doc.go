// Package holdings reconstructs positions, cost basis and valuations from the
// transaction ledger.
//
// The package is a pure, single-threaded batch computation: every call to
// Replay owns its own position map, so independent replays can run in
// parallel without coordination. Re-running the replay is the only way to
// recompute holdings; there is no incremental update path.
//
// The computation has four stages:
//   - Replay walks the ledger in (date_time, id) order and applies the
//     accounting rule of each transaction type to a per-(asset, account)
//     Position using average-cost accounting.
//   - Transfer legs are grouped by a transfer key and resolved exactly once.
//     A valid pair moves quantity and cost basis from the source to the
//     destination; anything else falls back to a plain movement and flags the
//     position with a TRANSFER_* status.
//   - ResolvePrice picks the manual or auto price for an asset and decides
//     whether it is stale.
//   - BuildRows, Summarize and ConsolidateByAsset value the positions and
//     aggregate them.
//
// Incomplete data never produces an error. It degrades the affected
// position's cost basis status instead, following the priority order
// TRANSFER_INVALID > TRANSFER_AMBIGUOUS > TRANSFER_UNMATCHED > UNKNOWN > KNOWN
// enforced by MergeStatus.
package holdings
