package holdings

import (
	"slices"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// ConsolidateByAsset merges rows for the same asset across accounts.
//
// Quantities and market values are summed. The consolidated cost basis is
// known only when every non-dust contributing row is known, and the status is
// the merge of the contributing statuses, so a TRANSFER_* diagnostic wins over
// plain UNKNOWN. Consolidating already-consolidated rows returns them unchanged.
func ConsolidateByAsset(rows []model.HoldingRow) []model.HoldingRow {
	byAsset := make(map[string]*model.HoldingRow)
	var order []string

	for _, row := range rows {
		acc, ok := byAsset[row.AssetID]
		if !ok {
			merged := row
			merged.AccountIDs = nil
			merged.Quantity = decimal.Zero
			merged.CostBasis = decimal.Zero
			merged.CostBasisKnown = true
			merged.CostBasisStatus = model.StatusKnown
			merged.TransferDiagnostic = nil
			merged.MarketValue = decimal.NullDecimal{}
			acc = &merged
			byAsset[row.AssetID] = acc
			order = append(order, row.AssetID)
		}
		mergeRow(acc, row)
	}

	out := make([]model.HoldingRow, 0, len(order))
	for _, assetID := range order {
		row := byAsset[assetID]
		slices.Sort(row.AccountIDs)
		row.AccountIDs = slices.Compact(row.AccountIDs)
		if len(row.AccountIDs) != 1 {
			row.AccountID = ""
			row.AccountName = ""
		}
		deriveValuation(row)
		out = append(out, *row)
	}
	sortRows(out)
	return out
}

func mergeRow(acc *model.HoldingRow, row model.HoldingRow) {
	ids := row.AccountIDs
	if len(ids) == 0 && row.AccountID != "" {
		ids = []string{row.AccountID}
	}
	acc.AccountIDs = append(acc.AccountIDs, ids...)

	acc.Quantity = acc.Quantity.Add(row.Quantity)
	acc.CostBasis = acc.CostBasis.Add(row.CostBasis)
	if row.MarketValue.Valid {
		sum := row.MarketValue.Decimal
		if acc.MarketValue.Valid {
			sum = sum.Add(acc.MarketValue.Decimal)
		}
		acc.MarketValue = decimal.NewNullDecimal(sum)
	}
	acc.IsStale = acc.IsStale || row.IsStale

	if IsDust(row.Quantity) {
		return
	}
	acc.CostBasisKnown = acc.CostBasisKnown && row.CostBasisKnown

	status := MergeStatus(acc.CostBasisStatus, row.CostBasisStatus)
	switch {
	case status.IsTransfer() && row.CostBasisStatus == status && acc.CostBasisStatus == status:
		acc.TransferDiagnostic = mergeDiagnostics(acc.TransferDiagnostic, row.TransferDiagnostic)
	case status.IsTransfer() && row.CostBasisStatus == status:
		acc.TransferDiagnostic = mergeDiagnostics(row.TransferDiagnostic)
	}
	acc.CostBasisStatus = status
}
