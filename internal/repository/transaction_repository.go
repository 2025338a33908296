package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// The table is append-only from the ledger's point of view: rows are inserted
// or deleted, never updated.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a repository that runs its queries inside tx.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionSelect = `
        SELECT t.id, t.date_time, t.account_id, t.asset_id, t.quantity, t.tx_type,
               t.unit_price_in_base, t.total_value_in_base, t.fee_in_base,
               t.external_reference, t.notes, t.created_at,
               a.symbol, acc.name
        FROM "transaction" t
        JOIN asset a ON a.id = t.asset_id
        JOIN account acc ON acc.id = t.account_id
        WHERE 1=1
    `

// GetTransactions retrieves transactions matching the filter in replay order
// (date_time, then id).
//
// Parameters:
//   - ctx: Context for cancellation
//   - filter: Optional account, asset, type and asset classification restrictions
//
// Returns:
//   - []model.TransactionResponse: Transactions with asset symbol and account name
//   - error: If the query fails or a stored value cannot be parsed
func (r *TransactionRepository) GetTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	query := transactionSelect
	var args []any

	if len(filter.AccountIDs) > 0 {
		placeholders, in := inClause(filter.AccountIDs)
		query += " AND t.account_id IN (" + placeholders + ")"
		args = append(args, in...)
	}
	if len(filter.AssetIDs) > 0 {
		placeholders, in := inClause(filter.AssetIDs)
		query += " AND t.asset_id IN (" + placeholders + ")"
		args = append(args, in...)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		placeholders, in := inClause(types)
		query += " AND t.tx_type IN (" + placeholders + ")"
		args = append(args, in...)
	}
	if filter.AssetType != "" {
		query += " AND a.type = ?"
		args = append(args, string(filter.AssetType))
	}
	if filter.VolatilityBucket != "" {
		query += " AND a.volatility_bucket = ?"
		args = append(args, string(filter.VolatilityBucket))
	}
	query += " ORDER BY t.date_time ASC, t.id ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns apperrors.ErrTransactionNotFound if no transaction has that ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.TransactionResponse, error) {
	row := r.getQuerier().QueryRowContext(ctx, transactionSelect+" AND t.id = ?", transactionID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TransactionResponse{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.TransactionResponse{}, err
	}
	return t, nil
}

func scanTransaction(row rowScanner) (model.TransactionResponse, error) {
	var (
		t                               model.TransactionResponse
		dateStr, createdAtStr           string
		quantity, txType                string
		unitPrice, totalValue, feeValue sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&dateStr,
		&t.AccountID,
		&t.AssetID,
		&quantity,
		&txType,
		&unitPrice,
		&totalValue,
		&feeValue,
		&t.ExternalReference,
		&t.Notes,
		&createdAtStr,
		&t.AssetSymbol,
		&t.AccountName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return t, err
	}
	if err != nil {
		return t, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.DateTime, err = ParseTime(dateStr)
	if err != nil {
		return t, fmt.Errorf("failed to parse date_time of transaction %s: %w", t.ID, err)
	}
	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return t, fmt.Errorf("failed to parse created_at of transaction %s: %w", t.ID, err)
	}

	t.Type, err = model.ParseTxType(txType)
	if err != nil {
		return t, fmt.Errorf("%w: transaction %s: %v", apperrors.ErrInvalidTransactionType, t.ID, err)
	}

	if t.Quantity, err = parseDecimal("quantity", quantity); err != nil {
		return t, err
	}
	if t.UnitPriceInBase, err = parseNullDecimal("unit_price_in_base", unitPrice); err != nil {
		return t, err
	}
	if t.TotalValueInBase, err = parseNullDecimal("total_value_in_base", totalValue); err != nil {
		return t, err
	}
	if t.FeeInBase, err = parseNullDecimal("fee_in_base", feeValue); err != nil {
		return t, err
	}

	return t, nil
}

// InsertTransaction appends a transaction to the ledger.
// Returns apperrors.ErrDataInconsistency if the account or asset does not exist.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
        INSERT INTO "transaction" (
            id, date_time, account_id, asset_id, quantity, tx_type,
            unit_price_in_base, total_value_in_base, fee_in_base,
            external_reference, notes, created_at
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		FormatTime(t.DateTime),
		t.AccountID,
		t.AssetID,
		t.Quantity.String(),
		string(t.Type),
		nullDecimalArg(t.UnitPriceInBase),
		nullDecimalArg(t.TotalValueInBase),
		nullDecimalArg(t.FeeInBase),
		t.ExternalReference,
		t.Notes,
		FormatTime(t.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: unknown account or asset for transaction %s", apperrors.ErrDataInconsistency, t.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// DeleteTransaction removes a transaction from the ledger.
// Returns apperrors.ErrTransactionNotFound if no transaction has that ID.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM "transaction" WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}
